package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayOfWeek is a day token in the EWS vocabulary. Beyond the seven
// week days, EWS defines three aggregate categories usable in relative
// monthly/yearly patterns ("the last Weekday of the month").
type DayOfWeek string

const (
	EWSSunday     DayOfWeek = "Sunday"
	EWSMonday     DayOfWeek = "Monday"
	EWSTuesday    DayOfWeek = "Tuesday"
	EWSWednesday  DayOfWeek = "Wednesday"
	EWSThursday   DayOfWeek = "Thursday"
	EWSFriday     DayOfWeek = "Friday"
	EWSSaturday   DayOfWeek = "Saturday"
	EWSDay        DayOfWeek = "Day"
	EWSWeekday    DayOfWeek = "Weekday"
	EWSWeekendDay DayOfWeek = "WeekendDay"
)

// InstanceIndex selects which instance of a day set within the period
// a relative pattern refers to.
type InstanceIndex string

const (
	IndexFirst  InstanceIndex = "First"
	IndexSecond InstanceIndex = "Second"
	IndexThird  InstanceIndex = "Third"
	IndexFourth InstanceIndex = "Fourth"
	IndexLast   InstanceIndex = "Last"
)

var dayToEWS = map[Weekday]DayOfWeek{
	Monday:    EWSMonday,
	Tuesday:   EWSTuesday,
	Wednesday: EWSWednesday,
	Thursday:  EWSThursday,
	Friday:    EWSFriday,
	Saturday:  EWSSaturday,
	Sunday:    EWSSunday,
}

// DayToEWS maps a rule weekday to its EWS counterpart. The mapping is
// total over the seven valid tokens; an unknown token maps to the
// Monday zero point and is caught earlier by rule decoding.
func DayToEWS(day Weekday) DayOfWeek {
	if d, ok := dayToEWS[day]; ok {
		return d
	}
	return EWSMonday
}

var (
	weekendDays = map[Weekday]struct{}{Saturday: {}, Sunday: {}}
	weekDays    = map[Weekday]struct{}{
		Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {}, Friday: {},
	}
	allDays = map[Weekday]struct{}{
		Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {}, Friday: {},
		Saturday: {}, Sunday: {},
	}
)

// DaySetFromByDay collapses a byDay list into the single day field of a
// relative pattern. One entry maps directly; multiple entries must be
// exactly the weekend, weekday or every-day set (tested in that order),
// since EWS has no way to express an arbitrary subset in one field.
func DaySetFromByDay(byDay []NDay) (DayOfWeek, error) {
	if len(byDay) == 1 {
		return DayToEWS(byDay[0].Day), nil
	}
	set := make(map[Weekday]struct{}, len(byDay))
	for _, nd := range byDay {
		set[nd.Day] = struct{}{}
	}
	switch {
	case sameDaySet(set, weekendDays):
		return EWSWeekendDay, nil
	case sameDaySet(set, weekDays):
		return EWSWeekday, nil
	case sameDaySet(set, allDays):
		return EWSDay, nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnsupportedDaySet, dayNames(byDay))
}

// WeekdaysFromByDay maps a weekly rule's byDay list verbatim to EWS
// days. Per-entry nth qualifiers are discarded: the Weekly pattern has
// no field for per-day instance numbers.
func WeekdaysFromByDay(byDay []NDay) []DayOfWeek {
	days := make([]DayOfWeek, 0, len(byDay))
	for _, nd := range byDay {
		days = append(days, DayToEWS(nd.Day))
	}
	return days
}

// MonthFromToken converts a byMonth token to a calendar month. Tokens
// are 1-based digits with an optional trailing "L" leap-month suffix;
// the suffix is stripped without altering the result, as leap-month
// semantics are undefined for the Gregorian-only target schema.
func MonthFromToken(token string) (time.Month, error) {
	trimmed := strings.TrimSuffix(token, "L")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMonthRange, token)
	}
	if n < 1 || n > 12 {
		return 0, fmt.Errorf("%w: %d", ErrMonthRange, n)
	}
	return time.Month(n), nil
}

// IndexFromInt maps an instance number to the EWS index vocabulary.
// Only the first four positions and "last" exist on the target side.
func IndexFromInt(n int) (InstanceIndex, error) {
	switch n {
	case 1:
		return IndexFirst, nil
	case 2:
		return IndexSecond, nil
	case 3:
		return IndexThird, nil
	case 4:
		return IndexFourth, nil
	case -1:
		return IndexLast, nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnsupportedInstanceIndex, n)
}

// sameDaySet tests set equality via an empty symmetric difference.
func sameDaySet(a, b map[Weekday]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for d := range a {
		if _, ok := b[d]; !ok {
			return false
		}
	}
	return true
}

func dayNames(byDay []NDay) []Weekday {
	names := make([]Weekday, 0, len(byDay))
	for _, nd := range byDay {
		names = append(names, nd.Day)
	}
	return names
}
