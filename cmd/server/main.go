package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/datagrid/internal/config"
	"github.com/JonMunkholm/datagrid/internal/dropdir"
	"github.com/JonMunkholm/datagrid/internal/grid"
	_ "github.com/JonMunkholm/datagrid/internal/grid/tables" // Register all tables
	"github.com/JonMunkholm/datagrid/internal/logging"
	"github.com/JonMunkholm/datagrid/internal/prefs"
	"github.com/JonMunkholm/datagrid/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	store, err := prefs.Open(ctx, prefs.Options{
		Backend:     cfg.Prefs.Backend,
		SQLitePath:  cfg.Prefs.SQLitePath,
		DatabaseURL: cfg.Prefs.DatabaseURL,
		MaxConns:    cfg.Prefs.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer store.Close()
	slog.Info("preferences ready", "backend", cfg.Prefs.Backend)

	service, err := grid.NewService(ctx, grid.All(), store, grid.ServiceConfig{
		PageSize:             cfg.Grid.PageSize,
		StrictDates:          cfg.Import.StrictDates,
		MaxFileSize:          cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		MaxImportWait:        cfg.Import.MaxWaitTime,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	tables := service.Tables()
	slog.Info("tables registered", "count", grid.TableCount())
	for _, t := range tables {
		slog.Debug("table", "key", t.Key, "label", t.Label)
	}

	server := web.NewServer(service, cfg)

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Import.DropDir != "" && len(tables) > 0 {
		watcher := dropdir.New(cfg.Import.DropDir, tables[0].Key, service, slog.Default())
		g.Go(func() error {
			return watcher.Run(gCtx)
		})
	}

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			slog.Info("shutting down...", "signal", sig.String())
		case <-gCtx.Done():
			slog.Info("shutting down...", "reason", "context cancelled")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		limiter := service.ImportLimiter()
		if n := limiter.ActiveCount(); n > 0 {
			slog.Info("waiting for imports to complete", "active", n)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	return nil
}

// errShutdown stops the remaining goroutines once shutdown has run.
var errShutdown = errors.New("shutdown")
