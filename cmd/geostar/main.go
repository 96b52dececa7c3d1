// Package main is the entry point for the GeoStar energy dashboard.
// It runs either the terminal client or the JSON API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/app"
	"github.com/j-veylop/geostar-dashboard/internal/cache"
	"github.com/j-veylop/geostar-dashboard/internal/config"
	"github.com/j-veylop/geostar-dashboard/internal/db"
	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/router"
	"github.com/j-veylop/geostar-dashboard/internal/server"
	"github.com/j-veylop/geostar-dashboard/internal/services"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages/daily"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages/overview"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages/readings"
	"github.com/j-veylop/geostar-dashboard/internal/version"
)

func main() {
	cmd := "tui"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "-v", "--version", "version":
		fmt.Println(version.Info())
		return
	case "-h", "--help", "help":
		printUsage()
		return
	case "tui":
		err = runTUI(args)
	case "serve":
		err = runServe()
	case "vacuum":
		err = runVacuum()
	default:
		if len(cmd) > 0 && cmd[0] == '/' {
			err = runTUI([]string{cmd})
			break
		}
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the terminal client. An optional argument is the first
// location to open, e.g. "/daily?date=2024-01-15".
func runTUI(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The alternate screen owns the terminal, so logs go to a file.
	logFile, err := logger.OpenFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logFile})

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	r := router.New()
	deps := pages.NewDeps(r, svcManager.Client(), cfg.Location())

	model := app.NewModel(svcManager, r)
	model.SetPages(
		overview.New(deps),
		daily.New(deps),
		readings.New(deps),
	)
	if len(args) > 0 {
		model.SetStartURL(args[0])
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	logger.Info("starting dashboard", "api", cfg.APIURL, "version", version.GetVersion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	deps.Fetcher.Abort()
	return nil
}

// runServe runs the JSON API over the readings database until interrupted.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	store, err := db.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var respCache cache.Cache = cache.NewMemory(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			logger.Warn("redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			respCache = rc
		}
	}
	defer func() { _ = respCache.Close() }()

	srv := server.New(store, server.Options{
		Location:  cfg.Location(),
		Cache:     respCache,
		RateLimit: cfg.RateLimit,
	})

	logger.Info("serving energy api", "db", store.Path(), "timezone", cfg.Timezone, "version", version.GetVersion())
	return srv.ListenAndServe(ctx, cfg.ListenAddr)
}

// runVacuum compacts the readings database.
func runVacuum() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	store, err := db.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Vacuum(); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	fmt.Println("Vacuumed", store.Path())
	return nil
}

func printUsage() {
	fmt.Println(`GeoStar Dashboard - geothermal heat pump energy monitor

Usage:
  geostar [command] [location]

Commands:
  tui [location]  Run the terminal dashboard (default), optionally opening
                  a location such as "/daily?date=2024-01-15"
  serve           Serve the JSON API from the readings database
  vacuum          Compact the readings database
  version         Show version information
  help            Show this help message

Keyboard Shortcuts:
  1-3             Overview, Daily, Readings
  ⌫, Alt+←/→      Back / forward in history
  Tab/Shift+Tab   Move between fields
  Enter           Confirm a field or toggle a unit
  Esc             Leave a field
  Ctrl+R, F5      Reload the current page
  ?               Toggle help
  q, Ctrl+C       Quit

Mouse:
  Drag across the overview chart to zoom, scroll over it to widen or
  narrow the range, double-click a day to open it. Click unit pills to
  filter and hover the chart to highlight table rows.

Environment Variables:
  API_URL          Dashboard API base URL (default: http://localhost:8787)
  LISTEN_ADDR      API listen address for serve (default: :8787)
  DATABASE_PATH    SQLite readings database
  GATEWAYS_PATH    JSON file mapping gateway ids to unit names
  TIMEZONE         Display and bucketing zone (default: America/Los_Angeles)
  REDIS_ADDR       Optional Redis response cache
  LOG_LEVEL        debug, info, warn or error

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/geostar/.env
  - ~/.geostar/.env`)
}
