// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath string
	GatewaysPath string
	ListenAddr   string
	APIURL       string
	Timezone     string

	LogLevel  string
	LogFormat string
	LogPath   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimit      int
	HTTPTimeout    time.Duration
	HealthInterval time.Duration
	DesktopNotify  bool
}

// Default values
const (
	defaultListenAddr  = ":8787"
	defaultAPIURL      = "http://localhost:8787"
	defaultTimezone    = "America/Los_Angeles"
	defaultCacheTTL    = 30 * time.Second
	defaultRateLimit   = 120
	defaultHTTPTimeout = 15 * time.Second
	defaultHealthEvery = 30 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:  getEnvString("DATABASE_PATH", defaultPath("geostar.db")),
		GatewaysPath:  getEnvString("GATEWAYS_PATH", defaultPath("gateways.json")),
		ListenAddr:    getEnvString("LISTEN_ADDR", defaultListenAddr),
		APIURL:        strings.TrimRight(getEnvString("API_URL", defaultAPIURL), "/"),
		Timezone:      getEnvString("TIMEZONE", defaultTimezone),
		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "console"),
		LogPath:       getEnvString("LOG_PATH", defaultPath("geostar.log")),
		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", defaultCacheTTL),
		RateLimit:     getEnvInt("RATE_LIMIT", defaultRateLimit),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", defaultHTTPTimeout),
		DesktopNotify: getEnvBool("DESKTOP_NOTIFY", false),

		HealthInterval: getEnvDuration("HEALTH_INTERVAL", defaultHealthEvery),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	for _, p := range []string{cfg.DatabasePath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(p)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Location returns the configured time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "geostar", ".env"),
			filepath.Join(home, ".geostar", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// defaultPath returns name inside the per-user config directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", "geostar", name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
