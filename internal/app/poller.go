package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuems/aedkeeper/internal/datalayer"
	"github.com/cuems/aedkeeper/internal/pending"
	"github.com/cuems/aedkeeper/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// source is the slice of the data layer the poller needs.
type source interface {
	Overview(ctx context.Context) (datalayer.Overview, error)
	GetSyncStatus() datalayer.SyncStatus
	Sync(ctx context.Context) (pending.Report, error)
}

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off while refreshes fail. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, src source, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, src, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// refresh replays queued offline work when the device is back online, then
// loads a fresh overview into the store.
func refresh(ctx context.Context, store *state.Store, src source, logger zerolog.Logger) error {
	if status := src.GetSyncStatus(); status.IsOnline && status.PendingChanges > 0 {
		report, err := src.Sync(ctx)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("auto-sync failed")
		case !report.OK():
			logger.Warn().
				Int("applied", report.Applied).
				Int("failed", len(report.Failed)).
				Msg("auto-sync dropped operations")
		default:
			logger.Info().Int("applied", report.Applied).Msg("auto-sync complete")
		}
	}

	ov, err := src.Overview(ctx)
	if err != nil {
		store.Update(nil, err)
		logger.Warn().Err(err).Msg("refresh failed")
		return err
	}
	store.Update(&state.Data{
		Inventory: ov.Inventory,
		Service:   ov.Service,
		Logs:      ov.Logs,
		Stats:     ov.Stats,
		Sync:      ov.Sync,
	}, nil)
	return nil
}
