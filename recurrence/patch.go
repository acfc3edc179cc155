package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// applyOverridePatch materializes one modified occurrence: a working
// copy of the base item is seeded with the overridden instant as its
// start, the patch's path edits are applied to the copy, and the
// resulting start/end pair is returned. The input item is never
// mutated.
//
// Paths touching fields the occurrence does not carry (title, body and
// the like) are accepted and ignored; the protocol layer re-reads them
// from the patched item when it serializes the exception.
func applyOverridePatch(item ItemSnapshot, original time.Time, patch PatchObject) (Occurrence, error) {
	loc, err := item.Location()
	if err != nil {
		return Occurrence{}, err
	}
	baseDuration, err := item.Duration()
	if err != nil {
		return Occurrence{}, err
	}

	start := original
	startOK := true

	var explicitEnd *time.Time
	endOK := true
	duration := baseDuration

	for path, value := range patch {
		switch path {
		case "excluded":
			// Handled by the resolver before patch application.
		case "start":
			t, ok := parseTimeValue(value, loc)
			if !ok {
				startOK = false
				continue
			}
			start = t
		case "end":
			t, ok := parseTimeValue(value, loc)
			if !ok {
				endOK = false
				continue
			}
			explicitEnd = &t
		case "duration":
			d, ok := parseDurationValue(value)
			if !ok {
				endOK = false
				continue
			}
			duration = d
		default:
			// Edits to untranslated fields do not affect the
			// occurrence times.
		}
	}

	if !startOK {
		return Occurrence{}, fmt.Errorf("%w: start edit for %s is unusable", ErrPatchResultIncomplete, original)
	}
	if !endOK {
		return Occurrence{}, fmt.Errorf("%w: end edit for %s is unusable", ErrPatchResultIncomplete, original)
	}

	end := start.Add(duration)
	if explicitEnd != nil {
		end = *explicitEnd
	}

	return Occurrence{
		ItemID:        item.ID,
		OriginalStart: original,
		Start:         start,
		End:           end,
	}, nil
}

func parseTimeValue(value any, loc *time.Location) (time.Time, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := ParseInstant(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDurationValue(value any) (time.Duration, bool) {
	s, ok := value.(string)
	if !ok {
		return 0, false
	}
	d, err := parseISODuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// parseISODuration parses the ISO-8601 duration subset the store emits
// (PnW, PnDTnHnMnS and partial forms). Months and years never appear
// in item durations.
func parseISODuration(s string) (time.Duration, error) {
	orig := s
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid duration %q", orig)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	for len(s) > 0 {
		if s[0] == 'T' {
			inTime = true
			s = s[1:]
			continue
		}
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", orig, err)
		}
		unit := s[i]
		s = s[i+1:]
		switch {
		case unit == 'W' && !inTime:
			total += time.Duration(n) * 7 * 24 * time.Hour
		case unit == 'D' && !inTime:
			total += time.Duration(n) * 24 * time.Hour
		case unit == 'H' && inTime:
			total += time.Duration(n) * time.Hour
		case unit == 'M' && inTime:
			total += time.Duration(n) * time.Minute
		case unit == 'S' && inTime:
			total += time.Duration(n) * time.Second
		default:
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
	}
	if negative {
		total = -total
	}
	return total, nil
}
