package recurrence

import (
	"fmt"
	"time"
)

// Date-time layouts accepted from the store and from override keys.
// The store writes local date-times without an offset; override keys
// and until bounds may carry an explicit offset or Z.
const (
	layoutLocal     = "2006-01-02T15:04:05"
	layoutLocalFrac = "2006-01-02T15:04:05.999999999"
	layoutDateOnly  = "2006-01-02"
)

// Location resolves the item's IANA time zone. An empty zone means
// floating local time, which the translation treats as UTC wall time.
func (it ItemSnapshot) Location() (*time.Location, error) {
	if it.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(it.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", it.TimeZone, err)
	}
	return loc, nil
}

// ParseInstant parses an ISO-8601 date-time. A value with an explicit
// offset (or Z) is taken as-is; a value without one is interpreted as
// wall time in loc.
func ParseInstant(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{layoutLocal, layoutLocalFrac, layoutDateOnly} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date-time %q", value)
}

// NormalizeUntil converts a rule's until bound into the item's zone.
// For a floating item (no zone) an explicit offset on the bound is
// dropped: the wall-clock components are reinterpreted as local time,
// matching how the store compares floating times.
func NormalizeUntil(until string, loc *time.Location, floating bool) (time.Time, error) {
	t, err := ParseInstant(until, loc)
	if err != nil {
		return time.Time{}, err
	}
	if floating {
		y, m, d := t.Date()
		hh, mm, ss := t.Clock()
		return time.Date(y, m, d, hh, mm, ss, 0, loc), nil
	}
	return t.In(loc), nil
}

// StartTime resolves the item's anchoring start instant. Tasks without
// a start fall back to their due date.
func (it ItemSnapshot) StartTime() (time.Time, error) {
	loc, err := it.Location()
	if err != nil {
		return time.Time{}, err
	}
	value := it.Start
	if value == "" {
		value = it.Due
	}
	if value == "" {
		return time.Time{}, ErrMissingStartDate
	}
	t, err := ParseInstant(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("item start: %w", err)
	}
	return t, nil
}

// Duration returns the item's recorded duration (end minus start), or
// zero when the item records no end. Occurrence ends are derived by
// adding this to each occurrence start.
func (it ItemSnapshot) Duration() (time.Duration, error) {
	if it.End == "" {
		return 0, nil
	}
	start, err := it.StartTime()
	if err != nil {
		return 0, err
	}
	loc, err := it.Location()
	if err != nil {
		return 0, err
	}
	end, err := ParseInstant(it.End, loc)
	if err != nil {
		return 0, fmt.Errorf("item end: %w", err)
	}
	return end.Sub(start), nil
}
