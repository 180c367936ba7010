package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunPruner deletes stored trajectory runs created before a cutoff.
type RunPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StartRetentionWorker prunes runs older than retention every interval until
// ctx is cancelled. A zero retention or interval leaves the worker off.
func StartRetentionWorker(ctx context.Context, runs RunPruner, retention, interval time.Duration, log *zap.Logger) {
	if runs == nil || retention <= 0 || interval <= 0 {
		log.Info("[RETENTION] retention disabled; worker not started")
		return
	}

	log.Info("[RETENTION] worker started",
		zap.Duration("retention", retention), zap.Duration("interval", interval))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("[RETENTION] worker stopping")
				return
			case <-ticker.C:
				Prune(ctx, runs, time.Now().Add(-retention), log)
			}
		}
	}()
}

// Prune runs a single retention pass and returns the number of runs removed.
func Prune(ctx context.Context, runs RunPruner, cutoff time.Time, log *zap.Logger) int64 {
	n, err := runs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("[RETENTION] prune failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		log.Info("[RETENTION] pruned runs", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n
}
