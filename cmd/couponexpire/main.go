package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	choicedomain "github.com/fleetrepair/backend/internal/domain/choice"
	coupondomain "github.com/fleetrepair/backend/internal/domain/coupon"
	choicecache "github.com/fleetrepair/backend/internal/infrastructure/choice"
	"github.com/fleetrepair/backend/internal/infrastructure/config"
	"github.com/fleetrepair/backend/internal/infrastructure/logger"
	"github.com/fleetrepair/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Expires overdue coupons. Meant to run from cron, typically daily:
// every valid coupon whose validity window has ended is moved to the
// configured expired status.
func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
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

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// The expired status must be configured; silently skipping would
	// leave overdue coupons spendable.
	choices := choicecache.NewManager(db.DB, nil, 0, log)
	expiredValue := coupondomain.StatusExpired
	token, err := choices.GetChoice(ctx, choicedomain.TypeCouponStatus, &expiredValue)
	if err != nil {
		log.Fatal("Failed to resolve coupon status", zap.Error(err))
	}
	if token == nil {
		log.Fatal("Coupon status 'expired' is not configured, aborting")
	}

	repo := persistence.NewGormCouponRepository(db.DB)
	expired, err := repo.ExpireOverdue(ctx, time.Now(), token.Value)
	if err != nil {
		log.Fatal("Failed to expire coupons", zap.Error(err))
	}

	log.Info("Coupon expiry run complete", zap.Int64("expired", expired))
}
