package recurrence

import "fmt"

// Shape names one of the six EWS pattern forms a rule can translate to.
type Shape int

const (
	ShapeAbsoluteYearly Shape = iota
	ShapeRelativeYearly
	ShapeAbsoluteMonthly
	ShapeRelativeMonthly
	ShapeWeekly
	ShapeDaily
)

// Classify inspects a single rule's populated fields and selects the
// EWS pattern shape it maps to. Field combinations with no EWS
// equivalent are rejected here so pattern construction never sees them.
func Classify(rule RecurrenceRule) (Shape, error) {
	if len(rule.ByHour) > 0 || len(rule.ByMinute) > 0 || len(rule.BySecond) > 0 {
		return 0, fmt.Errorf("%w: sub-daily by-parts", ErrUnsupportedRule)
	}
	if len(rule.ByWeekNo) > 0 {
		return 0, fmt.Errorf("%w: byWeekNo", ErrUnsupportedRule)
	}
	if len(rule.ByYearDay) > 0 {
		return 0, fmt.Errorf("%w: byYearDay", ErrUnsupportedRule)
	}
	if len(rule.BySetPosition) > 1 {
		return 0, fmt.Errorf("%w: multiple bySetPosition values", ErrUnsupportedRule)
	}

	switch rule.Frequency {
	case FreqYearly:
		if len(rule.ByMonthDay) == 1 && len(rule.ByMonth) == 1 {
			return ShapeAbsoluteYearly, nil
		}
		if len(rule.ByDay) > 0 && len(rule.ByMonth) == 1 {
			return ShapeRelativeYearly, nil
		}
		return 0, fmt.Errorf("%w: yearly rule needs a single month with either a single month day or a day set", ErrUnsupportedRule)
	case FreqMonthly:
		if len(rule.ByMonthDay) == 1 {
			return ShapeAbsoluteMonthly, nil
		}
		if len(rule.ByDay) > 0 {
			return ShapeRelativeMonthly, nil
		}
		return 0, fmt.Errorf("%w: monthly rule has neither byMonthDay nor byDay", ErrMissingData)
	case FreqWeekly:
		if len(rule.ByDay) == 0 {
			return 0, fmt.Errorf("%w: weekly rule has no byDay", ErrMissingData)
		}
		return ShapeWeekly, nil
	case FreqDaily:
		return ShapeDaily, nil
	case FreqHourly, FreqMinutely, FreqSecondly:
		return 0, fmt.Errorf("%w: frequency %q", ErrUnsupportedRule, rule.Frequency)
	}
	return 0, fmt.Errorf("%w: frequency %q", ErrUnsupportedRule, rule.Frequency)
}

// instanceIndex resolves the day-of-week index of a relative pattern:
// the sole bySetPosition entry when present, else the nth qualifier of
// a singleton byDay, else the first instance.
func instanceIndex(rule RecurrenceRule) (InstanceIndex, error) {
	if len(rule.BySetPosition) == 1 {
		return IndexFromInt(rule.BySetPosition[0])
	}
	if len(rule.ByDay) == 1 && rule.ByDay[0].NthOfPeriod != 0 {
		return IndexFromInt(rule.ByDay[0].NthOfPeriod)
	}
	return IndexFirst, nil
}
