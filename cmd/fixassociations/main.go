package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fleetrepair/backend/internal/infrastructure/config"
	"github.com/fleetrepair/backend/internal/infrastructure/logger"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Rebuilds the denormalized device/repair links (previous_repair_id and
// last_repair_id) after imports or manual data edits.
func main() {
	var (
		logLevel  string
		batchSize int
	)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.IntVar(&batchSize, "batch-size", 0, "Devices per transaction (default: from config)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if batchSize <= 0 {
		batchSize = cfg.Repair.FixBatchSize
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fixer := persistence.NewAssociationFixer(db.DB, batchSize, log)
	result, err := fixer.Fix(ctx)
	if err != nil {
		log.Fatal("Association fix failed", zap.Error(err))
	}

	log.Info("Association fix complete",
		zap.Int("devices_processed", result.DevicesProcessed),
		zap.Int64("repairs_relinked", result.RepairsRelinked),
		zap.Int64("devices_relinked", result.DevicesRelinked),
	)
}
