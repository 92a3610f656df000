package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stwalsh4118/diymedia/internal/config"
	"github.com/stwalsh4118/diymedia/internal/db"
	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "diymedia: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	var fileOutput *logger.FileOutput
	if cfg.Logging.File != "" {
		fileOutput = &logger.FileOutput{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		}
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Pretty, fileOutput); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Log.Info().Msg("Starting diymedia server")

	// Open database and apply migrations
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		return err
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		return err
	}

	// Load fixtures
	set, err := loadFixtures(cfg.Library.FixturesPath)
	if err != nil {
		return err
	}

	if cfg.Library.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectionTimeout)
		seeded, err := db.NewRepositories(database).Catalog.Seed(ctx, set.MediaItems())
		cancel()
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		logger.Log.Info().Int("items", seeded).Msg("Catalog seed complete")
	}

	srv := server.New(cfg, database, set)

	// Start server in the background
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Log.Info().Msg("Server shutdown complete")
	return nil
}

func loadFixtures(path string) (*fixtures.Set, error) {
	if path == "" {
		return fixtures.Default()
	}
	set, err := fixtures.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures from %s: %w", path, err)
	}
	return set, nil
}
