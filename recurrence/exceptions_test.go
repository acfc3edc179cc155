package recurrence

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyMondayItem() ItemSnapshot {
	item := recurringItem(RecurrenceRule{
		Frequency: FreqWeekly,
		ByDay:     []NDay{{Day: Monday}},
	})
	item.Start = "2024-01-01T10:00:00"
	item.End = "2024-01-01T11:00:00"
	return item
}

func TestResolveExceptions_ExcludedOverride(t *testing.T) {
	item := weeklyMondayItem()
	// 2024-03-04 is a Monday the base rule generates.
	item.Overrides = map[string]PatchObject{
		"2024-03-04T10:00:00Z": {"excluded": true},
	}

	result, err := NewResolver(nil).ResolveExceptions(item)
	require.NoError(t, err)

	require.Len(t, result.Deleted, 1)
	assert.True(t, result.Deleted[0].Equal(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)))
	assert.Empty(t, result.Modified)
}

func TestResolveExceptions_ModifiedOverride(t *testing.T) {
	item := weeklyMondayItem()
	item.Overrides = map[string]PatchObject{
		"2024-03-04T10:00:00": {"start": "2024-03-04T12:00:00"},
	}

	result, err := NewResolver(nil).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	require.Len(t, result.Modified, 1)
	occ := result.Modified[0]
	assert.Equal(t, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), occ.OriginalStart)
	assert.Equal(t, time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), occ.Start)
	assert.Equal(t, time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC), occ.End)
	assert.Equal(t, item.ID, occ.ItemID)
}

func TestResolveExceptions_StrayOverrideSkipped(t *testing.T) {
	item := weeklyMondayItem()
	// A Tuesday: the base rule never fires there.
	item.Overrides = map[string]PatchObject{
		"2024-03-05T10:00:00": {"excluded": true},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	result, err := NewResolver(logger).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Modified)
	assert.Contains(t, buf.String(), "matches no generated occurrence")
}

func TestResolveExceptions_MalformedKeyLoggedDistinctly(t *testing.T) {
	item := weeklyMondayItem()
	item.Overrides = map[string]PatchObject{
		"not-a-date": {"excluded": true},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	result, err := NewResolver(logger).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Modified)
	assert.Contains(t, buf.String(), "not a parseable date-time")
	assert.NotContains(t, buf.String(), "matches no generated occurrence")
}

func TestResolveExceptions_AdditiveOccurrenceRejected(t *testing.T) {
	item := weeklyMondayItem()
	item.Rules = nil
	item.Overrides = map[string]PatchObject{
		"2024-03-05T10:00:00": {"start": "2024-03-05T12:00:00"},
	}

	_, err := NewResolver(nil).ResolveExceptions(item)
	assert.ErrorIs(t, err, ErrAdditionalOccurrenceUnsupported)
}

func TestResolveExceptions_MultipleRules(t *testing.T) {
	item := weeklyMondayItem()
	item.Rules = append(item.Rules, RecurrenceRule{Frequency: FreqDaily})

	_, err := NewResolver(nil).ResolveExceptions(item)
	assert.ErrorIs(t, err, ErrMultipleRules)
}

func TestResolveExceptions_ExclusionRule(t *testing.T) {
	item := weeklyMondayItem()
	item.Rules[0].Count = 4 // Mondays Jan 1, 8, 15, 22
	item.Exclusions = []RecurrenceRule{{
		Frequency: FreqWeekly,
		Interval:  2,
		ByDay:     []NDay{{Day: Monday}},
		Count:     2,
	}}

	result, err := NewResolver(nil).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}, result.Deleted)
}

func TestResolveExceptions_OpenEndedExclusionBorrowsBaseBound(t *testing.T) {
	item := weeklyMondayItem()
	item.Rules[0].Count = 3 // Mondays Jan 1, 8, 15
	item.Exclusions = []RecurrenceRule{{
		Frequency: FreqWeekly,
		ByDay:     []NDay{{Day: Monday}},
		// No count/until: the base rule's last occurrence bounds it.
	}}

	result, err := NewResolver(nil).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}, result.Deleted)
}

func TestResolveExceptions_UnboundedExclusionDropped(t *testing.T) {
	item := weeklyMondayItem() // base rule itself unbounded
	item.Exclusions = []RecurrenceRule{{
		Frequency: FreqWeekly,
		ByDay:     []NDay{{Day: Monday}},
	}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	result, err := NewResolver(logger).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	assert.Contains(t, buf.String(), "no determinable bound")
}

func TestResolveExceptions_OverridesProcessedInKeyOrder(t *testing.T) {
	item := weeklyMondayItem()
	item.Overrides = map[string]PatchObject{
		"2024-03-11T10:00:00": {"excluded": true},
		"2024-01-08T10:00:00": {"excluded": true},
		"2024-02-05T10:00:00": {"excluded": true},
	}

	result, err := NewResolver(nil).ResolveExceptions(item)
	require.NoError(t, err)

	require.Len(t, result.Deleted, 3)
	assert.True(t, result.Deleted[0].Before(result.Deleted[1]))
	assert.True(t, result.Deleted[1].Before(result.Deleted[2]))
}

func TestResolveExceptions_ExcludedFlagWithEditsIsModification(t *testing.T) {
	item := weeklyMondayItem()
	item.Overrides = map[string]PatchObject{
		"2024-01-08T10:00:00": {"excluded": true, "start": "2024-01-08T14:00:00"},
	}

	result, err := NewResolver(nil).ResolveExceptions(item)
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	require.Len(t, result.Modified, 1)
	assert.Equal(t, time.Date(2024, 1, 8, 14, 0, 0, 0, time.UTC), result.Modified[0].Start)
}

func TestResolveExceptions_PatchResultIncomplete(t *testing.T) {
	item := weeklyMondayItem()
	item.Overrides = map[string]PatchObject{
		"2024-01-08T10:00:00": {"end": nil},
	}

	_, err := NewResolver(nil).ResolveExceptions(item)
	assert.ErrorIs(t, err, ErrPatchResultIncomplete)
}
