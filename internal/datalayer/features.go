package datalayer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuems/aedkeeper/internal/aed"
)

const recentCheckWindow = 30 * 24 * time.Hour

// Stats are the dashboard counters.
type Stats struct {
	Total           int
	Operational     int
	ServiceRequired int
	BatteryExpired  int
	PadsExpired     int
	RecentChecks    int // log entries created in the last 30 days
}

// ServiceItem is one row of the service list.
type ServiceItem struct {
	Record      aed.Record
	Issues      []string
	Urgent      bool
	DaysOverdue int
}

// CheckInput is a monthly inspection submitted by an inspector.
type CheckInput struct {
	Title     string
	CheckedBy string
	Status    string
	Notes     string
}

// SearchAeds returns the AEDs matching query, falling back to the cached
// inventory when needed.
func (s *Service) SearchAeds(ctx context.Context, query string) ([]aed.Record, error) {
	records, err := s.GetAllAeds(ctx, true)
	if err != nil {
		return nil, err
	}
	out := []aed.Record{}
	for _, r := range records {
		if aed.Matches(r, query) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ServiceList returns the AEDs needing service, most urgent first.
func (s *Service) ServiceList(ctx context.Context) ([]ServiceItem, error) {
	due, err := s.GetServiceDueAeds(ctx, true)
	if err != nil {
		return nil, err
	}
	return serviceItems(s.now(), due), nil
}

func serviceItems(now time.Time, due []aed.Record) []ServiceItem {
	aed.SortByUrgency(now, due)
	items := make([]ServiceItem, 0, len(due))
	for _, r := range due {
		item := ServiceItem{
			Record: r,
			Issues: aed.Issues(now, r),
			Urgent: aed.IsUrgent(now, r),
		}
		if expiry := aed.EarliestExpiry(r); now.After(expiry) {
			item.DaysOverdue = aed.DaysSinceExpiry(now, expiry)
		}
		items = append(items, item)
	}
	return items
}

// LogMonthlyCheck records an inspection: the AED's last-check fields are
// updated, then a Monthly Check entry is appended to the submission log.
func (s *Service) LogMonthlyCheck(ctx context.Context, in CheckInput, storeOfflineIfNeeded bool) (aed.Record, aed.LogEntry, error) {
	if err := aed.ValidateCheck(in.CheckedBy, in.Status, in.Notes); err != nil {
		return aed.Record{}, aed.LogEntry{}, err
	}
	current, err := s.GetAedByTitle(ctx, in.Title, storeOfflineIfNeeded)
	if err != nil {
		return aed.Record{}, aed.LogEntry{}, err
	}
	if current == nil {
		return aed.Record{}, aed.LogEntry{}, &aed.NotFoundError{Title: in.Title}
	}

	now := s.now().UTC()
	rec := *current
	rec.LastMonthlyCheckDate = now
	rec.LastMonthlyCheckBy = in.CheckedBy
	rec.LastMonthlyCheckStatus = in.Status
	rec.LastMonthlyCheckNotes = in.Notes

	updated, err := s.UpdateAed(ctx, rec, storeOfflineIfNeeded)
	if err != nil {
		return aed.Record{}, aed.LogEntry{}, fmt.Errorf("record check on %s: %w", in.Title, err)
	}

	entry, err := s.CreateLogEntry(ctx, aed.LogEntry{
		Title:               fmt.Sprintf("%s - %s - %s", in.Title, aed.SubmissionMonthlyCheck, now.Format("01/02/2006")),
		AedLinkTitle:        in.Title,
		SubmissionTimestamp: now,
		SubmittedBy:         in.CheckedBy,
		SubmissionType:      aed.SubmissionMonthlyCheck,
		SummaryOfAction:     in.Notes,
	}, storeOfflineIfNeeded)
	if err != nil {
		return updated, aed.LogEntry{}, fmt.Errorf("log check on %s: %w", in.Title, err)
	}

	s.log.Info().
		Str("aed", in.Title).
		Str("status", in.Status).
		Str("by", in.CheckedBy).
		Msg("monthly check logged")
	return updated, entry, nil
}

// Overview is everything the home screen shows, computed from one fetch.
type Overview struct {
	Inventory []aed.Record
	Service   []ServiceItem
	Logs      []aed.LogEntry
	Stats     Stats
	Sync      SyncStatus
}

// Overview fetches the inventory and the submission log concurrently, with
// offline fallback, and derives the service list and counters from them.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		records []aed.Record
		logs    []aed.LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.GetAllAeds(gctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.GetAllLogEntries(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	now := s.now()
	return Overview{
		Inventory: records,
		Service:   serviceItems(now, aed.ServiceDue(now, records)),
		Logs:      logs,
		Stats:     computeStats(now, records, logs),
		Sync:      s.GetSyncStatus(),
	}, nil
}

// Dashboard computes the home screen counters.
func (s *Service) Dashboard(ctx context.Context) (Stats, error) {
	ov, err := s.Overview(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ov.Stats, nil
}

func computeStats(now time.Time, records []aed.Record, logs []aed.LogEntry) Stats {
	stats := Stats{Total: len(records)}
	for _, r := range records {
		if r.CalculatedStatus == aed.StatusOperational {
			stats.Operational++
		}
		if r.NeedsService {
			stats.ServiceRequired++
		}
		if r.CalculatedBatteryExpiryDate.Before(now) {
			stats.BatteryExpired++
		}
		if r.CalculatedPadsExpiryDate.Before(now) {
			stats.PadsExpired++
		}
	}
	cutoff := now.Add(-recentCheckWindow)
	for _, e := range logs {
		if e.Created.After(cutoff) {
			stats.RecentChecks++
		}
	}
	return stats
}
