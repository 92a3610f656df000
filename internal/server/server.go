// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/diymedia/internal/api"
	"github.com/stwalsh4118/diymedia/internal/catalog"
	"github.com/stwalsh4118/diymedia/internal/config"
	"github.com/stwalsh4118/diymedia/internal/dashboard"
	"github.com/stwalsh4118/diymedia/internal/db"
	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/middleware"
	"github.com/stwalsh4118/diymedia/internal/player"
	"github.com/stwalsh4118/diymedia/internal/settings"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	db       *db.DB
	catalog  *catalog.Service
	resolver catalog.SourceResolver
	settings *settings.Service
	registry *shell.Registry
	router   *gin.Engine
	server   *http.Server
}

// New creates a new server instance. The catalog is read from the database;
// fixtures supply the dashboard data.
func New(cfg *config.Config, database *db.DB, set *fixtures.Set) *Server {
	repos := db.NewRepositories(database)

	registry := shell.NewRegistry(shell.Config{
		Fixtures: set,
		Feed: dashboard.FeedConfig{
			Interval: cfg.Dashboard.LogInterval,
			Capacity: cfg.Dashboard.LogCapacity,
		},
		Player: player.Config{
			HideDelay: cfg.Player.ControlsHideDelay,
		},
		AdvertiseAddress: cfg.Server.AdvertiseAddress,
	}, shell.RegistryConfig{
		IdleTimeout:     cfg.Sessions.IdleTimeout,
		CleanupInterval: cfg.Sessions.CleanupInterval,
	})

	source := catalog.NewGuardedSource(catalog.NewDBSource(repos.Catalog), catalog.BreakerConfig{
		FailureThreshold: cfg.Library.BreakerThreshold,
		ResetTimeout:     cfg.Library.BreakerResetTimeout,
	})

	return &Server{
		config:   cfg,
		db:       database,
		catalog:  catalog.NewService(source),
		resolver: catalog.NewURLResolver(cfg.Player.SampleSourceURL),
		settings: settings.NewService(repos.Settings, cfg.Settings.ScanDuration),
		registry: registry,
	}
}

// Router returns the configured router, building it on first use
func (s *Server) Router() *gin.Engine {
	if s.router == nil {
		s.setupRouter()
	}
	return s.router
}

// Registry returns the UI session registry
func (s *Server) Registry() *shell.Registry {
	return s.registry
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create new Gin router
	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)
	if s.config.Metrics.Enabled {
		s.router.Use(middleware.Metrics())
		s.router.GET(s.config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Create API route group
	apiGroup := s.router.Group("/api")
	apiGroup.Use(middleware.RateLimit(middleware.NewLimiter(s.config.Server.RateLimit, s.config.Server.RateBurst)))

	// Register service routes
	api.SetupHealthRoutes(apiGroup, s.db, s.registry)
	api.SetupLibraryRoutes(apiGroup, s.catalog, s.resolver, s.registry)
	api.SetupSessionRoutes(apiGroup, s.registry)
	api.SetupDashboardRoutes(apiGroup, s.registry)
	api.SetupPlayerRoutes(apiGroup, s.registry, s.catalog, s.resolver)
	api.SetupSettingsRoutes(apiGroup, s.settings)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.Router()

	// Start session registry cleanup
	if err := s.registry.Start(); err != nil {
		return fmt.Errorf("failed to start session registry: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Str("advertise_address", s.config.Server.AdvertiseAddress).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Close every UI session and its timers
	if s.registry != nil {
		s.registry.Stop()
	}

	// Cancel a pending simulated scan
	if s.settings != nil {
		s.settings.Stop()
	}

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
