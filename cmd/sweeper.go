package cmd

import (
	"context"
	"log"
	"os"

	announcementPostgres "github.com/familyone/factory-ops/internal/announcement/postgres"
	reportPostgres "github.com/familyone/factory-ops/internal/report/postgres"
	"github.com/familyone/factory-ops/internal/upload"
	"github.com/familyone/factory-ops/pkg/logger"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove orphaned upload blobs",
	Long:  `Scan the uploads directory and delete blobs no report or announcement references anymore.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSweep()
	},
}

func runSweep() {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	db, sqlDB, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer sqlDB.Close()

	store := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, upload.NewAuditLog(cfg.Uploads.AuditLogPath))

	reportRepo := reportPostgres.NewReportRepository(db)
	announcementRepo := announcementPostgres.NewAnnouncementRepository(db)

	sweeper := upload.NewSweeper(store, cfg.Uploads.SweepTTL,
		upload.ReferenceSourceFunc(reportRepo.ListImageURLs),
		upload.ReferenceSourceFunc(announcementRepo.ListBlobURLs),
	)

	removed, err := sweeper.SweepOnce(context.Background())
	if err != nil {
		appLogger.Error("sweep failed", "error", err)
		return
	}
	appLogger.Info("sweep complete", "removed", removed)
}
