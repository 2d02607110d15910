package aed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_PartialPatchKeepsUnsetFields(t *testing.T) {
	existing := validRecord()
	existing.ID = 4
	existing.PubliclyAccessible = true
	existing.Created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	merged := Merge(existing, Record{Title: existing.Title, Floor: "3", LastMonthlyCheckStatus: CheckFail})

	assert.Equal(t, "3", merged.Floor)
	assert.Equal(t, CheckFail, merged.LastMonthlyCheckStatus)
	assert.Equal(t, existing.BuildingName, merged.BuildingName)
	assert.Equal(t, existing.SerialNumber, merged.SerialNumber)
	assert.Equal(t, existing.Latitude, merged.Latitude)
	assert.True(t, merged.PubliclyAccessible, "no location block, flag unchanged")
	assert.Equal(t, 4, merged.ID)
	assert.Equal(t, existing.Created, merged.Created)
	require.NoError(t, Validate(merged))
}

func TestMerge_LocationBlockSetsPublicFlag(t *testing.T) {
	existing := validRecord()
	existing.PubliclyAccessible = true

	patch := existing
	patch.PubliclyAccessible = false
	patch.ID = 99

	merged := Merge(existing, patch)
	assert.False(t, merged.PubliclyAccessible)
	assert.Equal(t, existing.ID, merged.ID)
}

func TestMerge_ClearsDerivedFields(t *testing.T) {
	existing := validRecord()
	existing.CalculatedStatus = StatusMultipleIssues
	existing.NeedsService = true

	merged := Merge(existing, Record{Notes: "moved"})
	assert.Empty(t, merged.CalculatedStatus)
	assert.False(t, merged.NeedsService)
	assert.Equal(t, "moved", merged.Notes)
}
