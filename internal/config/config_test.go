package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	t.Setenv(key, "test_value")

	if got := getEnvString(key, "default"); got != "test_value" {
		t.Errorf("getEnvString() = %q, want %q", got, "test_value")
	}
	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvIntAndBool(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "7")
	t.Setenv("TEST_ENV_BAD_INT", "seven")
	t.Setenv("TEST_ENV_BOOL", "true")

	if got := getEnvInt("TEST_ENV_INT", 1); got != 7 {
		t.Errorf("getEnvInt() = %d, want 7", got)
	}
	if got := getEnvInt("TEST_ENV_BAD_INT", 1); got != 1 {
		t.Errorf("getEnvInt() = %d, want default 1", got)
	}
	if !getEnvBool("TEST_ENV_BOOL", false) {
		t.Error("getEnvBool() = false, want true")
	}
	if getEnvBool("TEST_ENV_MISSING_BOOL", false) {
		t.Error("getEnvBool() should fall back to default")
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}
	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Fatal("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	if paths[0] != filepath.Join(cwd, ".env") {
		t.Errorf("first env path = %q, want current directory .env", paths[0])
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "data", "db.sqlite"))
	t.Setenv("LOG_PATH", filepath.Join(tmpDir, "logs", "geostar.log"))
	t.Setenv("API_URL", "http://example.test:9000/")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "http://example.test:9000" {
		t.Errorf("APIURL = %q, want trailing slash trimmed", cfg.APIURL)
	}
	if cfg.Timezone != defaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, defaultTimezone)
	}
	if cfg.CacheTTL != defaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, defaultCacheTTL)
	}
	if cfg.ListenAddr != defaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, defaultListenAddr)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "data")); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
	if cfg.Location().String() != defaultTimezone {
		t.Errorf("Location() = %v", cfg.Location())
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db.sqlite"))
	t.Setenv("LOG_PATH", filepath.Join(tmpDir, "geostar.log"))
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an unknown time zone")
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "LISTEN_ADDR=:9999\nREDIS_ADDR=localhost:6379\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	t.Setenv("HOME", tmpDir)
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db.sqlite"))
	t.Setenv("LOG_PATH", filepath.Join(tmpDir, "geostar.log"))
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("REDIS_ADDR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want :9999", cfg.ListenAddr)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
}
