package recurrence

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is the unit a recurrence rule repeats in. The backend store
// accepts the full iCalendar set; only the first four are representable
// in the EWS pattern schema.
type Frequency string

const (
	FreqYearly   Frequency = "yearly"
	FreqMonthly  Frequency = "monthly"
	FreqWeekly   Frequency = "weekly"
	FreqDaily    Frequency = "daily"
	FreqHourly   Frequency = "hourly"
	FreqMinutely Frequency = "minutely"
	FreqSecondly Frequency = "secondly"
)

// Weekday is a day-of-week token in the rule's vocabulary (two-letter
// iCalendar abbreviations, lowercased as the store delivers them).
type Weekday string

const (
	Monday    Weekday = "mo"
	Tuesday   Weekday = "tu"
	Wednesday Weekday = "we"
	Thursday  Weekday = "th"
	Friday    Weekday = "fr"
	Saturday  Weekday = "sa"
	Sunday    Weekday = "su"
)

// NDay is one byDay entry: a day of the week, optionally qualified with
// the nth occurrence of that day within the period (negative counts
// from the end, e.g. -1 = last).
type NDay struct {
	Day         Weekday
	NthOfPeriod int // 0 = unqualified
}

// RecurrenceRule is one declarative rule describing a repeating series,
// already decoded into structured form by the storage layer.
//
// Count and Until are mutually exclusive; with neither set the series
// is unbounded. Until is an ISO-8601 date-time string, interpreted in
// the owning item's time zone when it carries no offset.
type RecurrenceRule struct {
	Frequency      Frequency
	Interval       int // 0 is treated as 1
	ByMonth        []string
	ByMonthDay     []int
	ByDay          []NDay
	BySetPosition  []int
	ByHour         []int
	ByMinute       []int
	BySecond       []int
	ByWeekNo       []int
	ByYearDay      []int
	Count          int // 0 = absent
	Until          string
	FirstDayOfWeek Weekday // "" defaults to Monday
}

// Bounded reports whether the rule terminates on its own, either by
// occurrence count or by an until bound.
func (r RecurrenceRule) Bounded() bool {
	return r.Count > 0 || r.Until != ""
}

// PatchObject is a sparse per-occurrence override: either exactly
// {"excluded": true} marking the instance deleted, or a set of
// path->value edits applied to a copy of the base item.
type PatchObject map[string]any

// Excluded reports whether the patch marks its occurrence deleted.
func (p PatchObject) Excluded() bool {
	v, ok := p["excluded"].(bool)
	return ok && v
}

// ItemSnapshot is the caller-owned view of one recurring calendar or
// task item, carrying everything the translation core reads. Start,
// End and Due are ISO-8601 date-time strings; TimeZone is an IANA zone
// name, empty meaning floating local time. Overrides is keyed by the
// ISO-8601 instant of the occurrence being overridden.
type ItemSnapshot struct {
	ID          uuid.UUID
	Title       string
	Description string
	Start       string
	End         string
	Due         string // tasks: substitute for a missing start
	TimeZone    string
	Rules       []RecurrenceRule
	Exclusions  []RecurrenceRule
	Overrides   map[string]PatchObject
}

// Occurrence is one concrete instance of a recurring item, computed on
// demand and never persisted. OriginalStart is set for modified
// occurrences and names the instant the base rule generated.
type Occurrence struct {
	ItemID        uuid.UUID
	OriginalStart time.Time
	Start         time.Time
	End           time.Time
}

// ExceptionResult is the outcome of reconciling exclusion rules and the
// override map against the base series.
type ExceptionResult struct {
	Deleted  []time.Time
	Modified []Occurrence
}
