package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studio-dashboard/internal/models"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Open connects to postgres, retrying while the database container starts,
// and migrates the activity journal table.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to activity database", "attempt", i, "max", maxAttempts)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Warn("activity database unavailable", "err", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect activity database after %d attempts: %w", maxAttempts, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.ActivityLog{}); err != nil {
		return nil, fmt.Errorf("migrate activity log: %w", err)
	}
	log.Info("activity database ready")
	return db, nil
}
