// Package ical extracts item snapshots from iCalendar components so
// they can be fed to the recurrence translation core. The rule string
// decoding here is deliberately narrow: it structures the RRULE parts
// the core understands and leaves everything else to fail translation
// explicitly.
package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/pimbridge/ewsgw/recurrence"
)

// SnapshotFromComponent builds an ItemSnapshot from a VEVENT or VTODO
// component. Times are carried as local date-time strings plus the
// TZID zone name; tasks without DTSTART keep their DUE as fallback.
func SnapshotFromComponent(comp *ical.Component) (recurrence.ItemSnapshot, error) {
	item := recurrence.ItemSnapshot{
		Overrides: make(map[string]recurrence.PatchObject),
	}

	if prop := comp.Props.Get(ical.PropUID); prop != nil && prop.Value != "" {
		// Item IDs are derived from the iCalendar UID so repeated
		// extractions of the same component agree.
		item.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(prop.Value))
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		item.Title = prop.Value
	}
	if prop := comp.Props.Get(ical.PropDescription); prop != nil {
		item.Description = prop.Value
	}

	if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
		value, tzid, err := localDateTime(prop)
		if err != nil {
			return recurrence.ItemSnapshot{}, fmt.Errorf("DTSTART: %w", err)
		}
		item.Start = value
		item.TimeZone = tzid
	}

	if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
		value, _, err := localDateTime(prop)
		if err != nil {
			return recurrence.ItemSnapshot{}, fmt.Errorf("DTEND: %w", err)
		}
		item.End = value
	}

	if comp.Name == ical.CompToDo {
		if prop := comp.Props.Get(ical.PropDue); prop != nil {
			value, tzid, err := localDateTime(prop)
			if err != nil {
				return recurrence.ItemSnapshot{}, fmt.Errorf("DUE: %w", err)
			}
			item.Due = value
			if item.TimeZone == "" {
				item.TimeZone = tzid
			}
		}
	}

	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil && prop.Value != "" {
		rule, err := DecodeRule(prop.Value)
		if err != nil {
			return recurrence.ItemSnapshot{}, fmt.Errorf("RRULE: %w", err)
		}
		item.Rules = append(item.Rules, rule)
	}

	if prop := comp.Props.Get("EXRULE"); prop != nil && prop.Value != "" {
		rule, err := DecodeRule(prop.Value)
		if err != nil {
			return recurrence.ItemSnapshot{}, fmt.Errorf("EXRULE: %w", err)
		}
		item.Exclusions = append(item.Exclusions, rule)
	}

	// EXDATE entries become excluded-instance overrides, keyed the same
	// way the store keys its override map.
	if prop := comp.Props.Get(ical.PropExceptionDates); prop != nil && prop.Value != "" {
		for _, part := range strings.Split(prop.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key, err := isoDateTime(part)
			if err != nil {
				return recurrence.ItemSnapshot{}, fmt.Errorf("EXDATE: %w", err)
			}
			item.Overrides[key] = recurrence.PatchObject{"excluded": true}
		}
	}

	return item, nil
}

// DecodeRule structures an RRULE (or EXRULE) value. Parts the core has
// no use for are still captured so classification can reject them with
// the right error instead of silently dropping them here.
func DecodeRule(value string) (recurrence.RecurrenceRule, error) {
	var rule recurrence.RecurrenceRule

	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, found := strings.Cut(part, "=")
		if !found {
			return rule, fmt.Errorf("malformed rule part %q", part)
		}

		switch strings.ToUpper(name) {
		case "FREQ":
			rule.Frequency = recurrence.Frequency(strings.ToLower(val))
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil {
				return rule, fmt.Errorf("INTERVAL %q: %w", val, err)
			}
			rule.Interval = n
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil {
				return rule, fmt.Errorf("COUNT %q: %w", val, err)
			}
			rule.Count = n
		case "UNTIL":
			iso, err := isoDateTime(val)
			if err != nil {
				return rule, fmt.Errorf("UNTIL %q: %w", val, err)
			}
			rule.Until = iso
		case "WKST":
			rule.FirstDayOfWeek = recurrence.Weekday(strings.ToLower(val))
		case "BYDAY":
			days, err := decodeByDay(val)
			if err != nil {
				return rule, err
			}
			rule.ByDay = days
		case "BYMONTH":
			rule.ByMonth = strings.Split(val, ",")
		case "BYMONTHDAY":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYMONTHDAY %q: %w", val, err)
			}
			rule.ByMonthDay = ints
		case "BYSETPOS":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYSETPOS %q: %w", val, err)
			}
			rule.BySetPosition = ints
		case "BYHOUR":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYHOUR %q: %w", val, err)
			}
			rule.ByHour = ints
		case "BYMINUTE":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYMINUTE %q: %w", val, err)
			}
			rule.ByMinute = ints
		case "BYSECOND":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYSECOND %q: %w", val, err)
			}
			rule.BySecond = ints
		case "BYWEEKNO":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYWEEKNO %q: %w", val, err)
			}
			rule.ByWeekNo = ints
		case "BYYEARDAY":
			ints, err := decodeInts(val)
			if err != nil {
				return rule, fmt.Errorf("BYYEARDAY %q: %w", val, err)
			}
			rule.ByYearDay = ints
		}
	}

	if rule.Frequency == "" {
		return rule, fmt.Errorf("rule %q has no FREQ", value)
	}
	return rule, nil
}

func decodeByDay(value string) ([]recurrence.NDay, error) {
	var days []recurrence.NDay
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		cut := len(entry) - 2
		if cut < 0 {
			return nil, fmt.Errorf("malformed BYDAY entry %q", entry)
		}
		nd := recurrence.NDay{Day: recurrence.Weekday(strings.ToLower(entry[cut:]))}
		if cut > 0 {
			n, err := strconv.Atoi(entry[:cut])
			if err != nil {
				return nil, fmt.Errorf("malformed BYDAY entry %q: %w", entry, err)
			}
			nd.NthOfPeriod = n
		}
		days = append(days, nd)
	}
	return days, nil
}

func decodeInts(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	ints := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		ints = append(ints, n)
	}
	return ints, nil
}

// localDateTime converts a date-time property to the snapshot's local
// ISO form plus its TZID, if any.
func localDateTime(prop *ical.Prop) (string, string, error) {
	value, err := isoDateTime(prop.Value)
	if err != nil {
		return "", "", err
	}
	return value, prop.Params.Get(ical.ParamTimezoneID), nil
}

// isoDateTime converts an iCalendar date or date-time value to the
// ISO-8601 form the snapshot carries. UTC-form values keep their Z
// designator so they stay absolute even on a zone-anchored item;
// floating values travel without an offset and pick up the TZID zone
// downstream.
func isoDateTime(value string) (string, error) {
	if t, err := time.Parse("20060102T150405Z", value); err == nil {
		return t.Format(time.RFC3339), nil
	}
	for _, layout := range []string{"20060102T150405", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02T15:04:05"), nil
		}
	}
	return "", fmt.Errorf("cannot parse date-time %q", value)
}
