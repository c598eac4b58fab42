package cmd

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/database"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/importer"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

var (
	importFile    string
	importTenant  string
	importCreator string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk import leads from an xlsx file",
	Long: `Reads a lead sheet and creates the leads row by row. A failing row
is reported and skipped, the rest of the batch continues.`,
	Run: func(cmd *cobra.Command, args []string) {
		runImport()
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFile, "file", "", "path to the xlsx file")
	importCmd.Flags().StringVar(&importTenant, "tenant", "", "tenant id")
	importCmd.Flags().StringVar(&importCreator, "created-by", "", "agent id recorded as the creator")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("tenant")
	_ = importCmd.MarkFlagRequired("created-by")
}

func runImport() {
	tenantID, err := uuid.Parse(importTenant)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid tenant id")
	}
	creatorID, err := uuid.Parse(importCreator)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid creator id")
	}

	file, err := os.Open(importFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open import file")
	}
	defer file.Close()

	rows, err := importer.ParseLeadSheet(file, tenantID, creatorID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse import file")
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	collector := metrics.NewMetrics()
	repo := repositories.NewRepository(db)
	notifier := services.NewNotifier(repo, nil, collector)
	leadService := services.NewLeadService(repo, services.NewAuditRecorder(), notifier,
		nil, nil, &tracing.NewRelicTracer{}, collector)

	summary := leadService.ImportLeads(context.Background(), rows)

	log.Info().
		Int("total", summary.Total).
		Int("imported", summary.Imported).
		Int("failed", summary.Failed).
		Msg("Import finished")
	for _, result := range summary.Results {
		if result.Error != "" {
			log.Warn().Int("row", result.Row).Str("error", result.Error).Msg("Row failed")
		}
	}
}
