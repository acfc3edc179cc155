package ewsxml

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimbridge/ewsgw/recurrence"
)

func render(t *testing.T, elem *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(elem)
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func TestEncodeRecurrence_WeeklyNumbered(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	elem, err := EncodeRecurrence(recurrence.PatternWithRange{
		Pattern: recurrence.Weekly{
			Interval:       1,
			DaysOfWeek:     []recurrence.DayOfWeek{recurrence.EWSMonday, recurrence.EWSWednesday, recurrence.EWSFriday},
			FirstDayOfWeek: recurrence.EWSMonday,
		},
		Range: recurrence.NumberedRange{Start: start, Count: 10},
	})
	require.NoError(t, err)

	xml := render(t, elem)
	assert.Contains(t, xml, "<t:WeeklyRecurrence>")
	assert.Contains(t, xml, "<t:Interval>1</t:Interval>")
	assert.Contains(t, xml, "<t:DaysOfWeek>Monday Wednesday Friday</t:DaysOfWeek>")
	assert.Contains(t, xml, "<t:FirstDayOfWeek>Monday</t:FirstDayOfWeek>")
	assert.Contains(t, xml, "<t:NumberedRecurrence>")
	assert.Contains(t, xml, "<t:StartDate>2024-01-01</t:StartDate>")
	assert.Contains(t, xml, "<t:NumberOfOccurrences>10</t:NumberOfOccurrences>")
}

func TestEncodeRecurrence_AbsoluteYearlyEndDate(t *testing.T) {
	elem, err := EncodeRecurrence(recurrence.PatternWithRange{
		Pattern: recurrence.AbsoluteYearly{DayOfMonth: 25, Month: time.December},
		Range: recurrence.EndDateRange{
			Start: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2030, 12, 25, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	xml := render(t, elem)
	assert.Contains(t, xml, "<t:AbsoluteYearlyRecurrence>")
	assert.Contains(t, xml, "<t:DayOfMonth>25</t:DayOfMonth>")
	assert.Contains(t, xml, "<t:Month>December</t:Month>")
	assert.Contains(t, xml, "<t:EndDateRecurrence>")
	assert.Contains(t, xml, "<t:EndDate>2030-12-25</t:EndDate>")
}

func TestEncodeRecurrence_RelativeShapes(t *testing.T) {
	relMonthly, err := EncodeRecurrence(recurrence.PatternWithRange{
		Pattern: recurrence.RelativeMonthly{
			DaysOfWeek:     recurrence.EWSFriday,
			DayOfWeekIndex: recurrence.IndexFirst,
			Interval:       1,
		},
		Range: recurrence.NoEndRange{Start: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	xml := render(t, relMonthly)
	assert.Contains(t, xml, "<t:RelativeMonthlyRecurrence>")
	assert.Contains(t, xml, "<t:DaysOfWeek>Friday</t:DaysOfWeek>")
	assert.Contains(t, xml, "<t:DayOfWeekIndex>First</t:DayOfWeekIndex>")
	assert.Contains(t, xml, "<t:NoEndRecurrence>")

	relYearly, err := EncodeRecurrence(recurrence.PatternWithRange{
		Pattern: recurrence.RelativeYearly{
			DaysOfWeek:     recurrence.EWSWeekday,
			DayOfWeekIndex: recurrence.IndexLast,
			Month:          time.November,
		},
		Range: recurrence.NoEndRange{Start: time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	xml = render(t, relYearly)
	assert.Contains(t, xml, "<t:RelativeYearlyRecurrence>")
	assert.Contains(t, xml, "<t:DaysOfWeek>Weekday</t:DaysOfWeek>")
	assert.Contains(t, xml, "<t:DayOfWeekIndex>Last</t:DayOfWeekIndex>")
	assert.Contains(t, xml, "<t:Month>November</t:Month>")
}

func TestEncodeOccurrenceLists(t *testing.T) {
	assert.Nil(t, EncodeDeletedOccurrences(nil))
	assert.Nil(t, EncodeModifiedOccurrences(nil))

	deleted := EncodeDeletedOccurrences([]time.Time{
		time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
	})
	xml := render(t, deleted)
	assert.Contains(t, xml, "<t:DeletedOccurrence>")
	assert.Contains(t, xml, "<t:Start>2024-03-04T10:00:00Z</t:Start>")

	modified := EncodeModifiedOccurrences([]recurrence.Occurrence{{
		OriginalStart: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		Start:         time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC),
	}})
	xml = render(t, modified)
	assert.Contains(t, xml, "<t:Occurrence>")
	assert.Contains(t, xml, "<t:Start>2024-03-04T12:00:00Z</t:Start>")
	assert.Contains(t, xml, "<t:End>2024-03-04T13:00:00Z</t:End>")
	assert.Contains(t, xml, "<t:OriginalStart>2024-03-04T10:00:00Z</t:OriginalStart>")
}
