package datalayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/localstore"
	"github.com/cuems/aedkeeper/internal/netstate"
	"github.com/cuems/aedkeeper/internal/pending"
	"github.com/cuems/aedkeeper/internal/remote"
)

// ConnectivityError is returned when a call needs the remote store, the
// device is offline, and the caller did not opt into offline handling.
type ConnectivityError struct {
	Op string
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: device is offline", e.Op)
}

// Options wire a Service.
type Options struct {
	Remote  remote.Store
	Store   *localstore.Adapter
	Queue   *pending.Queue
	Network netstate.Monitor
	Now     func() time.Time
	Logger  zerolog.Logger
}

// Service is the boundary API consumed by the presentation layer.
type Service struct {
	remote remote.Store
	store  *localstore.Adapter
	queue  *pending.Queue
	net    netstate.Monitor
	now    func() time.Time
	log    zerolog.Logger

	// mu serializes offline snapshot mutations against sync.
	mu sync.Mutex
}

// New validates opts and returns a Service.
func New(opts Options) (*Service, error) {
	switch {
	case opts.Remote == nil:
		return nil, errors.New("datalayer: remote store is required")
	case opts.Store == nil:
		return nil, errors.New("datalayer: local store is required")
	case opts.Queue == nil:
		return nil, errors.New("datalayer: pending queue is required")
	case opts.Network == nil:
		return nil, errors.New("datalayer: network monitor is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		remote: opts.Remote,
		store:  opts.Store,
		queue:  opts.Queue,
		net:    opts.Network,
		now:    now,
		log:    opts.Logger.With().Str("component", "datalayer").Logger(),
	}, nil
}

// readThrough runs fetch against the remote store while online. When the
// device is offline, or the remote call fails, it serves local() if the
// caller allowed the fallback.
func readThrough[T any](ctx context.Context, s *Service, op string, fallback bool, fetch func(context.Context) (T, error), local func() T) (T, error) {
	var zero T
	if s.net.Online() {
		v, err := fetch(ctx)
		if err == nil {
			return v, nil
		}
		if !fallback || ctx.Err() != nil {
			return zero, err
		}
		s.log.Warn().Err(err).Str("op", op).Msg("remote read failed, serving cached data")
		return local(), nil
	}
	if !fallback {
		return zero, &ConnectivityError{Op: op}
	}
	return local(), nil
}

func (s *Service) cachedInventory() []aed.Record {
	records, _ := localstore.Load(s.store, localstore.KeyInventory, []aed.Record{})
	return aed.EnrichAll(s.now(), records)
}

func (s *Service) cachedLogs() []aed.LogEntry {
	entries, _ := localstore.Load(s.store, localstore.KeyLogs, []aed.LogEntry{})
	if entries == nil {
		return []aed.LogEntry{}
	}
	return entries
}

// GetAllAeds returns the inventory with derived status.
func (s *Service) GetAllAeds(ctx context.Context, useOfflineFallback bool) ([]aed.Record, error) {
	return readThrough(ctx, s, "get all aeds", useOfflineFallback, s.remote.GetAllAeds, s.cachedInventory)
}

// GetAedByTitle returns the AED with title, or nil when there is none.
func (s *Service) GetAedByTitle(ctx context.Context, title string, useOfflineFallback bool) (*aed.Record, error) {
	fetch := func(ctx context.Context) (*aed.Record, error) {
		return s.remote.GetAedByTitle(ctx, title)
	}
	local := func() *aed.Record {
		records := s.cachedInventory()
		if idx := aed.IndexByTitle(records, title); idx >= 0 {
			return &records[idx]
		}
		return nil
	}
	return readThrough(ctx, s, "get aed by title", useOfflineFallback, fetch, local)
}

// GetServiceDueAeds returns the subset of GetAllAeds that needs service.
func (s *Service) GetServiceDueAeds(ctx context.Context, useOfflineFallback bool) ([]aed.Record, error) {
	records, err := s.GetAllAeds(ctx, useOfflineFallback)
	if err != nil {
		return nil, err
	}
	due := []aed.Record{}
	for _, r := range records {
		if r.NeedsService {
			due = append(due, r)
		}
	}
	return due, nil
}

// GetLogEntriesForAed returns the submission log entries linked to title.
func (s *Service) GetLogEntriesForAed(ctx context.Context, title string, useOfflineFallback bool) ([]aed.LogEntry, error) {
	fetch := func(ctx context.Context) ([]aed.LogEntry, error) {
		return s.remote.GetLogEntriesForAed(ctx, title)
	}
	local := func() []aed.LogEntry {
		entries := aed.LogsForTitle(s.cachedLogs(), title)
		if entries == nil {
			return []aed.LogEntry{}
		}
		return entries
	}
	return readThrough(ctx, s, "get log entries", useOfflineFallback, fetch, local)
}

// GetAllLogEntries returns the whole submission log.
func (s *Service) GetAllLogEntries(ctx context.Context, useOfflineFallback bool) ([]aed.LogEntry, error) {
	return readThrough(ctx, s, "get all log entries", useOfflineFallback, s.remote.GetAllLogEntries, s.cachedLogs)
}

// AddAed stores a new AED. Offline, with storeOfflineIfNeeded set, the record
// is added to the local snapshot and queued for replay.
func (s *Service) AddAed(ctx context.Context, data aed.Record, storeOfflineIfNeeded bool) (aed.Record, error) {
	data.ApplyDefaults()
	if err := aed.Validate(data); err != nil {
		return aed.Record{}, err
	}
	data.NormalizeExpiry()

	if s.net.Online() {
		rec, err := s.remote.AddAed(ctx, data)
		if err != nil {
			return aed.Record{}, err
		}
		s.mirrorRecord(rec)
		return rec, nil
	}
	if !storeOfflineIfNeeded {
		return aed.Record{}, &ConnectivityError{Op: "add aed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var added aed.Record
	stamp := func(records []aed.Record) {
		now := s.now().UTC()
		added = data
		added.ID = aed.MaxID(records) + 1
		added.Created = now
		added.Modified = now
	}
	applied := false
	_, res, err := localstore.Update(s.store, localstore.KeyInventory, []aed.Record{}, func(records []aed.Record) ([]aed.Record, error) {
		if idx := aed.IndexByTitle(records, data.Title); idx >= 0 {
			return nil, &remote.DuplicateError{Title: data.Title, SerialNumber: records[idx].SerialNumber}
		}
		applied = true
		stamp(records)
		return append(records, added), nil
	})
	if err != nil {
		return aed.Record{}, err
	}
	if !applied {
		s.log.Warn().Err(res.Err).Str("title", data.Title).Msg("local inventory unavailable, queueing add anyway")
		stamp(nil)
	}
	if _, err := s.queue.Enqueue(pending.OpAddAED, data); err != nil {
		return aed.Record{}, err
	}
	return aed.Enrich(s.now(), added), nil
}

// UpdateAed merges the fields set in data into the AED whose Title matches
// data.Title. An unknown title is reported as *aed.NotFoundError before the
// merged record is validated.
func (s *Service) UpdateAed(ctx context.Context, data aed.Record, storeOfflineIfNeeded bool) (aed.Record, error) {
	if s.net.Online() {
		rec, err := s.remote.UpdateAed(ctx, data)
		if err != nil {
			return aed.Record{}, err
		}
		s.mirrorRecord(rec)
		return rec, nil
	}
	if !storeOfflineIfNeeded {
		return aed.Record{}, &ConnectivityError{Op: "update aed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := data
	applied := false
	_, res, err := localstore.Update(s.store, localstore.KeyInventory, []aed.Record{}, func(records []aed.Record) ([]aed.Record, error) {
		idx := aed.IndexByTitle(records, data.Title)
		if idx < 0 {
			return nil, &aed.NotFoundError{Title: data.Title}
		}
		merged := aed.Merge(records[idx], data)
		merged.NormalizeExpiry()
		if err := aed.Validate(merged); err != nil {
			return nil, err
		}
		merged.Modified = s.now().UTC()
		applied = true
		updated = merged
		records[idx] = merged
		return records, nil
	})
	if err != nil {
		return aed.Record{}, err
	}
	if !applied {
		s.log.Warn().Err(res.Err).Str("title", data.Title).Msg("local inventory unavailable, queueing update anyway")
		updated.NormalizeExpiry()
		updated.Modified = s.now().UTC()
	}
	if _, err := s.queue.Enqueue(pending.OpUpdateAED, data); err != nil {
		return aed.Record{}, err
	}
	return aed.Enrich(s.now(), updated), nil
}

// CreateLogEntry appends to the submission log.
func (s *Service) CreateLogEntry(ctx context.Context, data aed.LogEntry, storeOfflineIfNeeded bool) (aed.LogEntry, error) {
	if s.net.Online() {
		entry, err := s.remote.CreateLogEntry(ctx, data)
		if err != nil {
			return aed.LogEntry{}, err
		}
		s.mirrorLog(entry)
		return entry, nil
	}
	if !storeOfflineIfNeeded {
		return aed.LogEntry{}, &ConnectivityError{Op: "create log entry"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created aed.LogEntry
	stamp := func(entries []aed.LogEntry) {
		now := s.now().UTC()
		created = data
		created.LogID = aed.MaxLogID(entries) + 1
		created.AppVersion = aed.AppVersion
		created.Created = now
		created.Modified = now
	}
	applied := false
	_, res, _ := localstore.Update(s.store, localstore.KeyLogs, []aed.LogEntry{}, func(entries []aed.LogEntry) ([]aed.LogEntry, error) {
		applied = true
		stamp(entries)
		return append(entries, created), nil
	})
	if !applied {
		s.log.Warn().Err(res.Err).Str("aed", data.AedLinkTitle).Msg("local log unavailable, queueing entry anyway")
		stamp(nil)
	}
	if _, err := s.queue.Enqueue(pending.OpAddLog, data); err != nil {
		return aed.LogEntry{}, err
	}
	return created, nil
}

// mirrorRecord writes a record returned by the remote store into the local
// snapshot, replacing any record with the same title.
func (s *Service) mirrorRecord(rec aed.Record) {
	localstore.Update(s.store, localstore.KeyInventory, []aed.Record{}, func(records []aed.Record) ([]aed.Record, error) {
		if idx := aed.IndexByTitle(records, rec.Title); idx >= 0 {
			records[idx] = rec
			return records, nil
		}
		return append(records, rec), nil
	})
}

func (s *Service) mirrorLog(entry aed.LogEntry) {
	localstore.Update(s.store, localstore.KeyLogs, []aed.LogEntry{}, func(entries []aed.LogEntry) ([]aed.LogEntry, error) {
		for i := range entries {
			if entries[i].LogID == entry.LogID {
				entries[i] = entry
				return entries, nil
			}
		}
		return append(entries, entry), nil
	})
}
