package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/database"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/messaging"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long: `Starts the background worker that flushes unpublished notification
outbox rows to the service bus on a schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWorker()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker() {
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	bus, err := messaging.NewServiceBusClient(cfg.ServiceBus, "crm-worker")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Service Bus")
	}
	defer bus.Close()

	repo := repositories.NewRepository(db)
	notifier := services.NewNotifier(repo, bus, metrics.NewMetrics())

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Worker.OutboxInterval),
		gocron.NewTask(func() {
			published, err := notifier.Flush(ctx, cfg.Worker.OutboxBatchSize)
			if err != nil {
				log.Error().Err(err).Msg("Outbox flush failed")
				return
			}
			if published > 0 {
				log.Info().Int("published", published).Msg("Outbox flushed")
			}
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule outbox flush")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		scheduler.Start()
		<-groupCtx.Done()
		return scheduler.Shutdown()
	})

	group.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			log.Info().Msg("Shutting down worker...")
			cancel()
		case <-groupCtx.Done():
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Worker stopped with error")
	}
	log.Info().Msg("Worker stopped")
}
