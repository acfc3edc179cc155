package recurrence

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// Expansion window bounds. The floor predates any realistic calendar
// data; the ceiling matches the largest year the expansion primitive
// iterates to.
var (
	expansionFloor   = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	expansionCeiling = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

var freqToRRule = map[Frequency]rrule.Frequency{
	FreqYearly:   rrule.YEARLY,
	FreqMonthly:  rrule.MONTHLY,
	FreqWeekly:   rrule.WEEKLY,
	FreqDaily:    rrule.DAILY,
	FreqHourly:   rrule.HOURLY,
	FreqMinutely: rrule.MINUTELY,
	FreqSecondly: rrule.SECONDLY,
}

var weekdayToRRule = map[Weekday]rrule.Weekday{
	Monday:    rrule.MO,
	Tuesday:   rrule.TU,
	Wednesday: rrule.WE,
	Thursday:  rrule.TH,
	Friday:    rrule.FR,
	Saturday:  rrule.SA,
	Sunday:    rrule.SU,
}

// compile turns a structured rule anchored at dtstart into an
// evaluable RRULE. Expansion accepts the full by-part set; the EWS
// representability checks belong to classification, not here.
func compile(rule RecurrenceRule, dtstart time.Time, loc *time.Location, floating bool) (*rrule.RRule, error) {
	freq, ok := freqToRRule[rule.Frequency]
	if !ok {
		return nil, fmt.Errorf("%w: frequency %q", ErrUnsupportedRule, rule.Frequency)
	}

	opt := rrule.ROption{
		Freq:       freq,
		Dtstart:    dtstart,
		Interval:   intervalOf(rule),
		Count:      rule.Count,
		Bysetpos:   rule.BySetPosition,
		Bymonthday: rule.ByMonthDay,
		Byyearday:  rule.ByYearDay,
		Byweekno:   rule.ByWeekNo,
		Byhour:     rule.ByHour,
		Byminute:   rule.ByMinute,
		Bysecond:   rule.BySecond,
	}

	for _, token := range rule.ByMonth {
		month, err := MonthFromToken(token)
		if err != nil {
			return nil, err
		}
		opt.Bymonth = append(opt.Bymonth, int(month))
	}

	for _, nd := range rule.ByDay {
		wd, ok := weekdayToRRule[nd.Day]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrMissingData, nd.Day)
		}
		if nd.NthOfPeriod != 0 {
			wd = wd.Nth(nd.NthOfPeriod)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}

	if rule.FirstDayOfWeek != "" {
		wkst, ok := weekdayToRRule[rule.FirstDayOfWeek]
		if !ok {
			return nil, fmt.Errorf("%w: unknown first day of week %q", ErrMissingData, rule.FirstDayOfWeek)
		}
		opt.Wkst = wkst
	}

	if rule.Until != "" {
		until, err := NormalizeUntil(rule.Until, loc, floating)
		if err != nil {
			return nil, fmt.Errorf("rule until: %w", err)
		}
		opt.Until = until
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("compile recurrence rule: %w", err)
	}
	return r, nil
}

// compileForItem anchors a rule at the item's resolved start.
func compileForItem(rule RecurrenceRule, item ItemSnapshot) (*rrule.RRule, time.Time, error) {
	start, err := item.StartTime()
	if err != nil {
		return nil, time.Time{}, err
	}
	loc, err := item.Location()
	if err != nil {
		return nil, time.Time{}, err
	}
	r, err := compile(rule, start, loc, item.TimeZone == "")
	if err != nil {
		return nil, time.Time{}, err
	}
	return r, start, nil
}

// FirstOccurrence computes the first instant the rule generates at or
// after the expansion floor. Every supported rule shape yields at
// least one instance for a usable anchor; a bound falling before the
// anchor yields ErrNoOccurrences.
func FirstOccurrence(rule RecurrenceRule, item ItemSnapshot) (Occurrence, error) {
	if len(item.Rules) > 1 {
		return Occurrence{}, ErrMultipleRules
	}
	r, _, err := compileForItem(rule, item)
	if err != nil {
		return Occurrence{}, err
	}
	first := r.After(expansionFloor, true)
	if first.IsZero() {
		return Occurrence{}, ErrNoOccurrences
	}
	return item.occurrenceAt(first)
}

// LastOccurrence computes the final instant of a bounded rule. An
// unbounded rule has no last occurrence and yields None rather than an
// error; callers check boundedness via the option.
func LastOccurrence(rule RecurrenceRule, item ItemSnapshot) (mo.Option[Occurrence], error) {
	if len(item.Rules) > 1 {
		return mo.None[Occurrence](), ErrMultipleRules
	}
	if !rule.Bounded() {
		return mo.None[Occurrence](), nil
	}
	r, _, err := compileForItem(rule, item)
	if err != nil {
		return mo.None[Occurrence](), err
	}
	last := r.Before(expansionCeiling, true)
	if last.IsZero() {
		return mo.None[Occurrence](), nil
	}
	occ, err := item.occurrenceAt(last)
	if err != nil {
		return mo.None[Occurrence](), err
	}
	return mo.Some(occ), nil
}

// expandAll returns every instant of a bounded rule, in order.
func expandAll(rule RecurrenceRule, item ItemSnapshot) ([]time.Time, error) {
	r, _, err := compileForItem(rule, item)
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}

// occursOnDay tests whether the rule generates an instant within the
// calendar day containing t, evaluated in the item's zone.
func occursOnDay(rule RecurrenceRule, item ItemSnapshot, t time.Time) (bool, error) {
	r, _, err := compileForItem(rule, item)
	if err != nil {
		return false, err
	}
	loc, err := item.Location()
	if err != nil {
		return false, err
	}
	local := t.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	// Between is inclusive on both ends; stop one second short of the
	// next midnight so an instant there counts toward the next day.
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)
	return len(r.Between(dayStart, dayEnd, true)) > 0, nil
}

// occurrenceAt pairs an occurrence start with its end, derived from the
// item's recorded duration.
func (it ItemSnapshot) occurrenceAt(start time.Time) (Occurrence, error) {
	duration, err := it.Duration()
	if err != nil {
		return Occurrence{}, err
	}
	return Occurrence{ItemID: it.ID, Start: start, End: start.Add(duration)}, nil
}
