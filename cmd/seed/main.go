package main

import (
	"context"
	"os"

	"uniform-tracker-api/config"
	"uniform-tracker-api/internal/database"
	"uniform-tracker-api/internal/logs"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logs.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg, nil)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	run, err := runSeed(context.Background(), cfg, db, logger)
	if err != nil {
		logger.Error("Seed aborted", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("Seed complete",
		zap.String("run_id", run.RunID),
		zap.Int("created", run.Created),
		zap.Int("updated", run.Updated),
		zap.Int("checked_in", run.CheckedIn),
		zap.Int("skipped", run.Skipped),
		zap.Int("failed", run.Failed),
	)
}
