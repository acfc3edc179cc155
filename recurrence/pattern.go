package recurrence

import (
	"fmt"
	"time"
)

// Pattern is the closed union of EWS recurrence shapes. The marker
// method keeps the set closed so every consumer can switch over it
// exhaustively.
type Pattern interface {
	isPattern()
}

// AbsoluteYearly repeats on a fixed day of a fixed month every year.
type AbsoluteYearly struct {
	DayOfMonth int
	Month      time.Month
}

// RelativeYearly repeats on the nth day-set instance of a fixed month.
type RelativeYearly struct {
	DaysOfWeek     DayOfWeek
	DayOfWeekIndex InstanceIndex
	Month          time.Month
}

// AbsoluteMonthly repeats on a fixed day of the month.
type AbsoluteMonthly struct {
	DayOfMonth int
	Interval   int
}

// RelativeMonthly repeats on the nth day-set instance of the month.
type RelativeMonthly struct {
	DaysOfWeek     DayOfWeek
	DayOfWeekIndex InstanceIndex
	Interval       int
}

// Weekly repeats on a set of week days every n weeks.
type Weekly struct {
	Interval       int
	DaysOfWeek     []DayOfWeek
	FirstDayOfWeek DayOfWeek
}

// Daily repeats every n days.
type Daily struct {
	Interval int
}

func (AbsoluteYearly) isPattern()  {}
func (RelativeYearly) isPattern()  {}
func (AbsoluteMonthly) isPattern() {}
func (RelativeMonthly) isPattern() {}
func (Weekly) isPattern()          {}
func (Daily) isPattern()           {}

// Range is the closed union of EWS recurrence bounds.
type Range interface {
	isRange()
}

// EndDateRange bounds the series by a final date.
type EndDateRange struct {
	Start time.Time
	End   time.Time
}

// NumberedRange bounds the series by occurrence count.
type NumberedRange struct {
	Start time.Time
	Count int
}

// NoEndRange leaves the series unbounded.
type NoEndRange struct {
	Start time.Time
}

func (EndDateRange) isRange()  {}
func (NumberedRange) isRange() {}
func (NoEndRange) isRange()    {}

// PatternWithRange is the complete outward recurrence description of
// one item: exactly one pattern paired with exactly one range.
type PatternWithRange struct {
	Pattern Pattern
	Range   Range
}

// BuildPattern translates the item's recurrence rule into its EWS
// pattern and range. Pure construction: identical inputs always yield
// identical output.
func BuildPattern(item ItemSnapshot) (PatternWithRange, error) {
	if len(item.Rules) > 1 {
		return PatternWithRange{}, ErrMultipleRules
	}
	if len(item.Rules) == 0 {
		return PatternWithRange{}, fmt.Errorf("%w: item has no recurrence rule", ErrMissingData)
	}
	rule := item.Rules[0]

	start, err := item.StartTime()
	if err != nil {
		return PatternWithRange{}, err
	}

	pattern, err := buildShape(rule)
	if err != nil {
		return PatternWithRange{}, err
	}

	rng, err := buildRange(rule, item, start)
	if err != nil {
		return PatternWithRange{}, err
	}

	return PatternWithRange{Pattern: pattern, Range: rng}, nil
}

func buildShape(rule RecurrenceRule) (Pattern, error) {
	shape, err := Classify(rule)
	if err != nil {
		return nil, err
	}

	switch shape {
	case ShapeAbsoluteYearly:
		month, err := MonthFromToken(rule.ByMonth[0])
		if err != nil {
			return nil, err
		}
		return AbsoluteYearly{DayOfMonth: rule.ByMonthDay[0], Month: month}, nil

	case ShapeRelativeYearly:
		month, err := MonthFromToken(rule.ByMonth[0])
		if err != nil {
			return nil, err
		}
		days, err := DaySetFromByDay(rule.ByDay)
		if err != nil {
			return nil, err
		}
		index, err := instanceIndex(rule)
		if err != nil {
			return nil, err
		}
		return RelativeYearly{DaysOfWeek: days, DayOfWeekIndex: index, Month: month}, nil

	case ShapeAbsoluteMonthly:
		return AbsoluteMonthly{DayOfMonth: rule.ByMonthDay[0], Interval: intervalOf(rule)}, nil

	case ShapeRelativeMonthly:
		days, err := DaySetFromByDay(rule.ByDay)
		if err != nil {
			return nil, err
		}
		index, err := instanceIndex(rule)
		if err != nil {
			return nil, err
		}
		return RelativeMonthly{DaysOfWeek: days, DayOfWeekIndex: index, Interval: intervalOf(rule)}, nil

	case ShapeWeekly:
		first := rule.FirstDayOfWeek
		if first == "" {
			first = Monday
		}
		return Weekly{
			Interval:       intervalOf(rule),
			DaysOfWeek:     WeekdaysFromByDay(rule.ByDay),
			FirstDayOfWeek: DayToEWS(first),
		}, nil

	case ShapeDaily:
		return Daily{Interval: intervalOf(rule)}, nil
	}
	return nil, fmt.Errorf("%w: unknown pattern shape", ErrUnsupportedRule)
}

func buildRange(rule RecurrenceRule, item ItemSnapshot, start time.Time) (Range, error) {
	switch {
	case rule.Until != "":
		loc, err := item.Location()
		if err != nil {
			return nil, err
		}
		end, err := NormalizeUntil(rule.Until, loc, item.TimeZone == "")
		if err != nil {
			return nil, fmt.Errorf("rule until: %w", err)
		}
		return EndDateRange{Start: start, End: end}, nil
	case rule.Count > 0:
		return NumberedRange{Start: start, Count: rule.Count}, nil
	}
	return NoEndRange{Start: start}, nil
}

func intervalOf(rule RecurrenceRule) int {
	if rule.Interval < 1 {
		return 1
	}
	return rule.Interval
}
