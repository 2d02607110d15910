package datalayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/localstore"
	"github.com/cuems/aedkeeper/internal/pending"
	"github.com/cuems/aedkeeper/internal/remote"
)

// Messages returned by InitializeOfflineData.
const (
	MsgOfflineMode = "Offline mode - using cached data"
	MsgInitialized = "Offline data initialized successfully"
)

// InitResult is the outcome of InitializeOfflineData.
type InitResult struct {
	Success bool
	Message string
}

// SyncStatus is a read-only view of the sync state.
type SyncStatus struct {
	PendingChanges int
	LastSync       *time.Time
	IsOnline       bool
}

// InitializeOfflineData replays queued work and refreshes the local baseline
// when online. Offline, the persisted data is left untouched.
func (s *Service) InitializeOfflineData(ctx context.Context) InitResult {
	if !s.net.Online() {
		s.log.Info().Msg("starting in offline mode")
		return InitResult{Success: true, Message: MsgOfflineMode}
	}
	report, err := s.Sync(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to initialize offline data")
		return InitResult{Success: false, Message: fmt.Sprintf("Failed to initialize offline data: %v", err)}
	}
	s.log.Info().Int("replayed", report.Applied).Msg("offline data initialized")
	return InitResult{Success: true, Message: MsgInitialized}
}

// ForceSync drains the pending queue on demand. It reports false only when the
// device is offline; a failed baseline refresh after the drain is logged.
func (s *Service) ForceSync(ctx context.Context) bool {
	_, err := s.Sync(ctx)
	var connErr *ConnectivityError
	if errors.As(err, &connErr) {
		return false
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("sync drained the queue but could not refresh the baseline")
	}
	return true
}

// Sync replays every pending operation against the remote store, then fetches
// both collections as the new local baseline and stamps the sync time.
func (s *Service) Sync(ctx context.Context) (pending.Report, error) {
	if !s.net.Online() {
		return pending.Report{}, &ConnectivityError{Op: "sync"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.queue.DrainAndReplay(ctx, s.replay)
	if err := s.refreshBaseline(ctx); err != nil {
		return report, err
	}
	return report, nil
}

// replay applies one queued operation through the remote store directly.
func (s *Service) replay(ctx context.Context, op pending.Operation) error {
	switch op.Type {
	case pending.OpAddAED:
		var rec aed.Record
		if err := op.Decode(&rec); err != nil {
			return err
		}
		_, err := s.remote.AddAed(ctx, rec)
		var dup *remote.DuplicateError
		if !errors.As(err, &dup) {
			return err
		}
		if dup.SerialNumber != rec.SerialNumber {
			return fmt.Errorf("title held by serial %q, queued serial %q: %w", dup.SerialNumber, rec.SerialNumber, err)
		}
		// Already applied by an earlier sync.
		s.log.Debug().Str("op_id", op.ID).Str("title", rec.Title).Msg("queued add already present remotely")
		return nil
	case pending.OpUpdateAED:
		var rec aed.Record
		if err := op.Decode(&rec); err != nil {
			return err
		}
		_, err := s.remote.UpdateAed(ctx, rec)
		return err
	case pending.OpAddLog:
		var entry aed.LogEntry
		if err := op.Decode(&entry); err != nil {
			return err
		}
		_, err := s.remote.CreateLogEntry(ctx, entry)
		return err
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (s *Service) refreshBaseline(ctx context.Context) error {
	var (
		inventory []aed.Record
		logs      []aed.LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inventory, err = s.remote.GetAllAeds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.remote.GetAllLogEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh baseline: %w", err)
	}

	s.store.Store(localstore.KeyInventory, inventory)
	s.store.Store(localstore.KeyLogs, logs)
	s.store.Store(localstore.KeyLastSync, s.now().UTC().Format(time.RFC3339))

	s.log.Info().
		Int("aeds", len(inventory)).
		Int("logs", len(logs)).
		Msg("local baseline refreshed")
	return nil
}

// GetSyncStatus reports the queue depth, the last successful sync and the
// connectivity state. It never blocks on the network.
func (s *Service) GetSyncStatus() SyncStatus {
	status := SyncStatus{
		PendingChanges: s.queue.Len(),
		IsOnline:       s.net.Online(),
	}
	raw, res := localstore.Load(s.store, localstore.KeyLastSync, "")
	if res.OK() && raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			status.LastSync = &ts
		}
	}
	return status
}
