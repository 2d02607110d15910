package remote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/logging"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func seedRecord(id int, title string) aed.Record {
	return aed.Record{
		ID:                          id,
		Title:                       title,
		BuildingName:                "Library",
		Floor:                       "1",
		SpecificLocationDescription: "Main lobby",
		Manufacturer:                "ZOLL",
		Model:                       "AED Plus",
		SerialNumber:                "SN-" + title,
		BatteryInstallDate:          testNow.AddDate(-1, 0, 0),
		BatteryLifespanMonths:       24,
		CalculatedBatteryExpiryDate: testNow.AddDate(1, 0, 0),
		PadsInstallDate:             testNow.AddDate(-1, 0, 0),
		PadsLifespanMonths:          24,
		CalculatedPadsExpiryDate:    testNow.AddDate(1, 0, 0),
		LastMonthlyCheckStatus:      aed.CheckPass,
		Created:                     testNow.AddDate(-1, 0, 0),
		Modified:                    testNow.AddDate(-1, 0, 0),
	}
}

func newTestClient(t *testing.T, seed Seed, latency Latency) (*Client, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository(fixedNow)
	require.NoError(t, repo.Open(seed))
	t.Cleanup(func() { _ = repo.Close() })

	client, err := NewClient(repo, Options{Latency: latency, Now: fixedNow, Logger: logging.Nop()})
	require.NoError(t, err)
	return client, repo
}

func TestNewClient_RejectsNilRepository(t *testing.T) {
	_, err := NewClient(nil, Options{})
	require.Error(t, err)
}

func TestGetAllAeds_Enriches(t *testing.T) {
	expired := seedRecord(2, "CU-AED-002")
	expired.CalculatedBatteryExpiryDate = testNow.AddDate(0, -1, 0)
	client, _ := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "CU-AED-001"), expired}}, Latency{})

	records, err := client.GetAllAeds(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, aed.StatusOperational, records[0].CalculatedStatus)
	assert.False(t, records[0].NeedsService)
	assert.Equal(t, aed.StatusBatteryService, records[1].CalculatedStatus)
	assert.True(t, records[1].NeedsService)
}

func TestGetAllAeds_EmptyIsNotNil(t *testing.T) {
	client, _ := newTestClient(t, Seed{}, Latency{})
	records, err := client.GetAllAeds(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGetAedByTitle(t *testing.T) {
	client, _ := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "CU-AED-001")}}, Latency{})

	rec, err := client.GetAedByTitle(context.Background(), "CU-AED-001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, aed.StatusOperational, rec.CalculatedStatus)

	missing, err := client.GetAedByTitle(context.Background(), "CU-AED-999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAddAed_AssignsNextID(t *testing.T) {
	client, _ := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "a"), seedRecord(7, "b")}}, Latency{})

	in := seedRecord(0, "c")
	in.Created = time.Time{}
	rec, err := client.AddAed(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.ID)
	assert.Equal(t, testNow, rec.Created)
	assert.Equal(t, testNow, rec.Modified)
	assert.Equal(t, aed.StatusOperational, rec.CalculatedStatus)
}

func TestAddAed_EmptyCollectionStartsAtOne(t *testing.T) {
	client, _ := newTestClient(t, Seed{}, Latency{})
	rec, err := client.AddAed(context.Background(), seedRecord(0, "first"))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
}

func TestAddAed_RecomputesExpiry(t *testing.T) {
	client, _ := newTestClient(t, Seed{}, Latency{})
	in := seedRecord(0, "x")
	in.BatteryInstallDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	in.BatteryLifespanMonths = 12
	in.CalculatedBatteryExpiryDate = time.Time{}

	rec, err := client.AddAed(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), rec.CalculatedBatteryExpiryDate)
	assert.Equal(t, aed.StatusBatteryService, rec.CalculatedStatus)
}

func TestAddAed_DuplicateTitle(t *testing.T) {
	client, repo := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "CU-AED-001")}}, Latency{})

	_, err := client.AddAed(context.Background(), seedRecord(0, "CU-AED-001"))
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "CU-AED-001", dup.Title)
	assert.Equal(t, "SN-CU-AED-001", dup.SerialNumber)

	all, _ := repo.ListAEDs(context.Background())
	assert.Len(t, all, 1)
}

func TestUpdateAed_KeepsIdentity(t *testing.T) {
	original := seedRecord(3, "CU-AED-003")
	client, _ := newTestClient(t, Seed{Inventory: []aed.Record{original}}, Latency{})

	changed := original
	changed.ID = 99
	changed.Created = time.Time{}
	changed.Floor = "2"
	changed.LastMonthlyCheckStatus = aed.CheckFail

	rec, err := client.UpdateAed(context.Background(), changed)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ID)
	assert.Equal(t, original.Created, rec.Created)
	assert.Equal(t, testNow, rec.Modified)
	assert.Equal(t, "2", rec.Floor)
	assert.Equal(t, aed.StatusAttention, rec.CalculatedStatus)
}

func TestUpdateAed_NotFoundLeavesCollectionUnchanged(t *testing.T) {
	client, repo := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "CU-AED-001")}}, Latency{})
	before, _ := repo.ListAEDs(context.Background())

	_, err := client.UpdateAed(context.Background(), seedRecord(0, "CU-AED-404"))
	var nf *aed.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "CU-AED-404", nf.Title)

	after, _ := repo.ListAEDs(context.Background())
	assert.Equal(t, before, after)
}

func TestUpdateAed_PartialPatchMerges(t *testing.T) {
	original := seedRecord(1, "CU-AED-001")
	client, _ := newTestClient(t, Seed{Inventory: []aed.Record{original}}, Latency{})

	rec, err := client.UpdateAed(context.Background(), aed.Record{Title: "CU-AED-001", Floor: "3"})
	require.NoError(t, err)
	assert.Equal(t, "3", rec.Floor)
	assert.Equal(t, original.BuildingName, rec.BuildingName)
	assert.Equal(t, original.SerialNumber, rec.SerialNumber)
	assert.Equal(t, original.BatteryLifespanMonths, rec.BatteryLifespanMonths)
}

func TestUpdateAed_NotFoundBeforeValidation(t *testing.T) {
	client, _ := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "CU-AED-001")}}, Latency{})

	_, err := client.UpdateAed(context.Background(), aed.Record{Title: "CU-AED-404", LastMonthlyCheckStatus: aed.CheckFail})
	var nf *aed.NotFoundError
	require.ErrorAs(t, err, &nf)
	var verr *aed.ValidationError
	assert.NotErrorAs(t, err, &verr)
}

func TestUpdateAed_InvalidMergeLeavesRecordUnchanged(t *testing.T) {
	client, repo := newTestClient(t, Seed{Inventory: []aed.Record{seedRecord(1, "CU-AED-001")}}, Latency{})
	before, _ := repo.ListAEDs(context.Background())

	_, err := client.UpdateAed(context.Background(), aed.Record{Title: "CU-AED-001", Latitude: 200})
	var verr *aed.ValidationError
	require.ErrorAs(t, err, &verr)

	after, _ := repo.ListAEDs(context.Background())
	assert.Equal(t, before, after)
}

func TestLogEntries(t *testing.T) {
	client, _ := newTestClient(t, Seed{Logs: []aed.LogEntry{
		{LogID: 1, AedLinkTitle: "CU-AED-001", Title: "first"},
		{LogID: 2, AedLinkTitle: "CU-AED-002", Title: "second"},
	}}, Latency{})
	ctx := context.Background()

	entry, err := client.CreateLogEntry(ctx, aed.LogEntry{AedLinkTitle: "CU-AED-001", Title: "third", AppVersion: "0.1"})
	require.NoError(t, err)
	assert.Equal(t, 3, entry.LogID)
	assert.Equal(t, aed.AppVersion, entry.AppVersion)
	assert.Equal(t, testNow, entry.Created)

	all, err := client.GetAllLogEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := client.GetLogEntriesForAed(ctx, "CU-AED-001")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "first", mine[0].Title)
	assert.Equal(t, "third", mine[1].Title)

	none, err := client.GetLogEntriesForAed(ctx, "CU-AED-404")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCancelledCallDoesNotMutate(t *testing.T) {
	client, repo := newTestClient(t, Seed{}, Latency{Add: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.AddAed(ctx, seedRecord(0, "late"))
	require.ErrorIs(t, err, context.Canceled)

	all, _ := repo.ListAEDs(context.Background())
	assert.Empty(t, all)
}

func TestLatencyIsObserved(t *testing.T) {
	client, _ := newTestClient(t, Seed{}, Latency{GetAll: 20 * time.Millisecond})
	start := time.Now()
	_, err := client.GetAllAeds(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLatencyScaled(t *testing.T) {
	half := DefaultLatency().Scaled(0.5)
	assert.Equal(t, 250*time.Millisecond, half.GetAll)
	assert.Equal(t, 300*time.Millisecond, half.Add)
	assert.Equal(t, Latency{}, DefaultLatency().Scaled(0))
}

func TestConcurrentAddsGetDistinctIDs(t *testing.T) {
	client, _ := newTestClient(t, Seed{}, Latency{})

	const n = 20
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := client.AddAed(context.Background(), seedRecord(0, string(rune('A'+i))))
			if err == nil {
				ids <- rec.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestClosedRepository(t *testing.T) {
	repo := NewMemoryRepository(nil)
	_, err := repo.ListAEDs(context.Background())
	require.ErrorIs(t, err, ErrClosed)

	require.NoError(t, repo.Open(Seed{}))
	require.Error(t, repo.Open(Seed{}))
}
