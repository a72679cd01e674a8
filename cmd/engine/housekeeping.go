package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"resumehunt-engine/internal/store"
)

const housekeepingInterval = time.Hour

// housekeeping checkpoints the WAL and drops result sets past retention.
func housekeeping(db *store.DB, retentionDays int) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if retentionDays > 0 {
			n, err := db.CleanupOlderThan(ctx, time.Duration(retentionDays)*24*time.Hour)
			if err != nil {
				return err
			}
			if n > 0 {
				zap.L().Info("old result sets removed", zap.Int64("count", n), zap.Int("retention_days", retentionDays))
			}
		}
		return db.Checkpoint(ctx)
	}
}
