package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/config"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/api/handlers"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server

	leadService    *services.LeadService
	aobService     *services.AOBService
	catalogService *services.CatalogService
	tracer         tracing.Tracer
	collector      *metrics.Metrics
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	leadService *services.LeadService,
	aobService *services.AOBService,
	catalogService *services.CatalogService,
	tracer tracing.Tracer,
	collector *metrics.Metrics,
) *Server {
	server := &Server{
		config:         cfg,
		leadService:    leadService,
		aobService:     aobService,
		catalogService: catalogService,
		tracer:         tracer,
		collector:      collector,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      server.router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestLogger())
	router.Use(handlers.MetricsMiddleware(s.collector))

	v1 := router.Group("/api/v1")
	handlers.NewLeadHandler(s.leadService, s.tracer).RegisterRoutes(v1)
	handlers.NewAOBHandler(s.aobService, s.tracer).RegisterRoutes(v1)
	handlers.NewCatalogHandler(s.catalogService).RegisterRoutes(v1)

	handlers.NewMetricsHandler(s.collector).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
