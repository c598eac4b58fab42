package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/api"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/cache"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/database"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/messaging"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/search"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the CRM API server. The server shuts down gracefully on
SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAPI()
	},
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI() {
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := models.SetupModels(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		redisCache = nil
	}
	if redisCache != nil {
		defer redisCache.Close()
	}

	elastic, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Elasticsearch unavailable, continuing without search")
		elastic = nil
	}

	var bus messaging.ServiceBusClient
	bus, err = messaging.NewServiceBusClient(cfg.ServiceBus, "crm-api")
	if err != nil {
		log.Warn().Err(err).Msg("Service Bus unavailable, notifications stay in the outbox")
		bus = nil
	}
	if bus != nil {
		defer bus.Close()
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	collector := metrics.NewMetrics()
	repo := repositories.NewRepository(db)
	recorder := services.NewAuditRecorder()
	notifier := services.NewNotifier(repo, bus, collector)

	leadService := services.NewLeadService(repo, recorder, notifier, redisCache, elastic, tracer, collector)
	aobService := services.NewAOBService(repo, recorder, notifier, tracer, collector)
	catalogService := services.NewCatalogService(repo, redisCache)

	server := api.NewServer(cfg, leadService, aobService, catalogService, tracer, collector)
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
}
