package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuems/aedkeeper/internal/aed"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	require.Len(t, s.Inventory, 5)
	require.Len(t, s.Logs, 2)

	for i, r := range s.Inventory {
		assert.Equal(t, i+1, r.ID)
		assert.NoError(t, aed.Validate(r), r.Title)
	}

	// Quoted values in the second record still decode.
	second := s.Inventory[1]
	assert.Equal(t, "CU-AED-002", second.Title)
	assert.InDelta(t, 40.00714, second.Latitude, 1e-9)
	assert.True(t, second.PubliclyAccessible)
	assert.Equal(t, 48, second.BatteryLifespanMonths)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), second.CalculatedBatteryExpiryDate)

	june := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, aed.StatusOperational, aed.DeriveStatus(june, s.Inventory[0]).Status)
	assert.Equal(t, aed.StatusMultipleIssues, aed.DeriveStatus(june, second).Status)

	assert.Equal(t, "Derek Haase", s.Logs[0].SubmittedBy)
	assert.Equal(t, "CU-AED-002", s.Logs[1].AedLinkTitle)
}

func TestParse_BareArrayAssignsIDs(t *testing.T) {
	s, err := Parse([]byte(`[
		{"Title": "A", "id": 4},
		{"Title": "B"},
		{"Title": "C", "PubliclyAccessible": 0, "BatteryInstallDate": "2024-01-31", "BatteryLifespanMonths": 1}
	]`))
	require.NoError(t, err)
	require.Len(t, s.Inventory, 3)
	assert.Empty(t, s.Logs)

	assert.Equal(t, 4, s.Inventory[0].ID)
	assert.Equal(t, 5, s.Inventory[1].ID)
	assert.Equal(t, 6, s.Inventory[2].ID)
	assert.Equal(t, aed.DefaultPadsType, s.Inventory[1].PadsType)
	assert.False(t, s.Inventory[2].PubliclyAccessible)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), s.Inventory[2].CalculatedBatteryExpiryDate)
}

func TestParse_Object(t *testing.T) {
	s, err := Parse([]byte(`{"inventory": [{"Title": "A"}], "logs": [{"AedLinkTitle": "A"}, {"logId": "9"}]}`))
	require.NoError(t, err)
	require.Len(t, s.Inventory, 1)
	require.Len(t, s.Logs, 2)
	assert.Equal(t, 10, s.Logs[0].LogID)
	assert.Equal(t, 9, s.Logs[1].LogID)
	assert.Equal(t, aed.AppVersion, s.Logs[0].AppVersion)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"scalar", `42`},
		{"missing title", `[{"id": 1}]`},
		{"duplicate title", `[{"Title": "A"}, {"Title": "A"}]`},
		{"bad number", `[{"Title": "A", "Latitude": "north"}]`},
		{"bad date", `[{"Title": "A", "Created": "yesterday"}]`},
		{"bad bool", `[{"Title": "A", "PubliclyAccessible": "sometimes"}]`},
		{"inventory not array", `{"inventory": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Len(t, s.Inventory, 5)

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Title": "X"}]`), 0o644))
	s, err = Load(path)
	require.NoError(t, err)
	require.Len(t, s.Inventory, 1)
	assert.Equal(t, 1, s.Inventory[0].ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
