package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// sweeper is the slice of the dispatch service the background worker drives.
type sweeper interface {
	ProcessScheduled(ctx context.Context) error
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

type Config struct {
	SweepInterval   time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
}

// Worker periodically runs the scheduled-send sweep and the retention
// cleanup. Each pass is short-lived; errors are logged and the next tick
// proceeds normally.
type Worker struct {
	cfg     Config
	service sweeper
	logger  zerolog.Logger
}

func New(cfg Config, service sweeper, logger zerolog.Logger) *Worker {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 24 * time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	return &Worker{
		cfg:     cfg,
		service: service,
		logger:  logger.With().Str("component", "notification_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Dur("sweep_interval", w.cfg.SweepInterval).
		Dur("cleanup_interval", w.cfg.CleanupInterval).
		Msg("notification worker started")

	sweepTicker := time.NewTicker(w.cfg.SweepInterval)
	defer sweepTicker.Stop()
	cleanupTicker := time.NewTicker(w.cfg.CleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notification worker stopped")
			return ctx.Err()
		case <-sweepTicker.C:
			if err := w.service.ProcessScheduled(ctx); err != nil {
				w.logger.Error().Err(err).Msg("scheduled sweep failed")
			}
		case <-cleanupTicker.C:
			if _, err := w.service.Cleanup(ctx, w.cfg.Retention); err != nil {
				w.logger.Error().Err(err).Msg("retention cleanup failed")
			}
		}
	}
}
