// Package remote is the facade over the inventory system of record. Every
// call waits out a simulated network latency and enriches the records it
// returns with their derived status.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuems/aedkeeper/internal/aed"
)

// Latency is the simulated round trip of each facade call.
type Latency struct {
	GetAll      time.Duration
	GetByTitle  time.Duration
	Add         time.Duration
	Update      time.Duration
	CreateLog   time.Duration
	LogsByTitle time.Duration
	AllLogs     time.Duration
}

// DefaultLatency mirrors the delays of the hosted list API.
func DefaultLatency() Latency {
	return Latency{
		GetAll:      500 * time.Millisecond,
		GetByTitle:  300 * time.Millisecond,
		Add:         600 * time.Millisecond,
		Update:      600 * time.Millisecond,
		CreateLog:   400 * time.Millisecond,
		LogsByTitle: 300 * time.Millisecond,
		AllLogs:     400 * time.Millisecond,
	}
}

// Scaled multiplies every delay by factor. Zero or negative disables latency.
func (l Latency) Scaled(factor float64) Latency {
	if factor <= 0 {
		return Latency{}
	}
	scale := func(d time.Duration) time.Duration { return time.Duration(float64(d) * factor) }
	return Latency{
		GetAll:      scale(l.GetAll),
		GetByTitle:  scale(l.GetByTitle),
		Add:         scale(l.Add),
		Update:      scale(l.Update),
		CreateLog:   scale(l.CreateLog),
		LogsByTitle: scale(l.LogsByTitle),
		AllLogs:     scale(l.AllLogs),
	}
}

// Store is the facade surface consumed by the data layer.
type Store interface {
	GetAllAeds(ctx context.Context) ([]aed.Record, error)
	GetAedByTitle(ctx context.Context, title string) (*aed.Record, error)
	AddAed(ctx context.Context, data aed.Record) (aed.Record, error)
	UpdateAed(ctx context.Context, data aed.Record) (aed.Record, error)
	CreateLogEntry(ctx context.Context, data aed.LogEntry) (aed.LogEntry, error)
	GetLogEntriesForAed(ctx context.Context, title string) ([]aed.LogEntry, error)
	GetAllLogEntries(ctx context.Context) ([]aed.LogEntry, error)
}

// Ensure Client implements Store at compile time.
var _ Store = (*Client)(nil)

// Client talks to a Repository as if it were across the network.
type Client struct {
	repo    Repository
	latency Latency
	now     func() time.Time
	log     zerolog.Logger
}

// Options configure a Client.
type Options struct {
	Latency Latency
	Now     func() time.Time
	Logger  zerolog.Logger
}

// NewClient builds a facade over repo.
func NewClient(repo Repository, opts Options) (*Client, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is nil")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		repo:    repo,
		latency: opts.Latency,
		now:     now,
		log:     opts.Logger.With().Str("component", "remote").Logger(),
	}, nil
}

// wait suspends for d. A cancelled context ends the call before it touches
// the repository.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetAllAeds returns the whole inventory.
func (c *Client) GetAllAeds(ctx context.Context) ([]aed.Record, error) {
	if err := c.wait(ctx, c.latency.GetAll); err != nil {
		return nil, err
	}
	records, err := c.repo.ListAEDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list aeds: %w", err)
	}
	return aed.EnrichAll(c.now(), records), nil
}

// GetAedByTitle returns the record with title, or nil when there is none.
func (c *Client) GetAedByTitle(ctx context.Context, title string) (*aed.Record, error) {
	if err := c.wait(ctx, c.latency.GetByTitle); err != nil {
		return nil, err
	}
	rec, ok, err := c.repo.FindAED(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find aed %q: %w", title, err)
	}
	if !ok {
		return nil, nil
	}
	enriched := aed.Enrich(c.now(), rec)
	return &enriched, nil
}

// AddAed stores a new AED. The repository assigns id and timestamps.
func (c *Client) AddAed(ctx context.Context, data aed.Record) (aed.Record, error) {
	if err := c.wait(ctx, c.latency.Add); err != nil {
		return aed.Record{}, err
	}
	data.NormalizeExpiry()
	rec, err := c.repo.InsertAED(ctx, data)
	if err != nil {
		return aed.Record{}, fmt.Errorf("add aed %q: %w", data.Title, err)
	}
	c.log.Info().Int("id", rec.ID).Str("title", rec.Title).Msg("aed added")
	return aed.Enrich(c.now(), rec), nil
}

// UpdateAed merges the fields set in patch into the AED with the same title.
// The title is resolved first, so an unknown title is always
// *aed.NotFoundError; the merged record must then pass aed.Validate.
func (c *Client) UpdateAed(ctx context.Context, patch aed.Record) (aed.Record, error) {
	if err := c.wait(ctx, c.latency.Update); err != nil {
		return aed.Record{}, err
	}
	rec, err := c.repo.ModifyAED(ctx, patch.Title, func(existing aed.Record) (aed.Record, error) {
		merged := aed.Merge(existing, patch)
		merged.NormalizeExpiry()
		if err := aed.Validate(merged); err != nil {
			return aed.Record{}, err
		}
		return merged, nil
	})
	if err != nil {
		return aed.Record{}, fmt.Errorf("update aed %q: %w", patch.Title, err)
	}
	c.log.Info().Int("id", rec.ID).Str("title", rec.Title).Msg("aed updated")
	return aed.Enrich(c.now(), rec), nil
}

// CreateLogEntry appends to the submission log.
func (c *Client) CreateLogEntry(ctx context.Context, data aed.LogEntry) (aed.LogEntry, error) {
	if err := c.wait(ctx, c.latency.CreateLog); err != nil {
		return aed.LogEntry{}, err
	}
	entry, err := c.repo.InsertLog(ctx, data)
	if err != nil {
		return aed.LogEntry{}, fmt.Errorf("create log entry for %q: %w", data.AedLinkTitle, err)
	}
	c.log.Info().Int("log_id", entry.LogID).Str("aed", entry.AedLinkTitle).Msg("log entry created")
	return entry, nil
}

// GetLogEntriesForAed returns log entries linked to title.
func (c *Client) GetLogEntriesForAed(ctx context.Context, title string) ([]aed.LogEntry, error) {
	if err := c.wait(ctx, c.latency.LogsByTitle); err != nil {
		return nil, err
	}
	entries, err := c.repo.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return nonNilLogs(aed.LogsForTitle(entries, title)), nil
}

// GetAllLogEntries returns the whole submission log.
func (c *Client) GetAllLogEntries(ctx context.Context) ([]aed.LogEntry, error) {
	if err := c.wait(ctx, c.latency.AllLogs); err != nil {
		return nil, err
	}
	entries, err := c.repo.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return nonNilLogs(entries), nil
}

func nonNilLogs(entries []aed.LogEntry) []aed.LogEntry {
	if entries == nil {
		return []aed.LogEntry{}
	}
	return entries
}
