// Package ewsxml renders translated recurrence data as EWS types-
// namespace XML elements, ready to be grafted into a CalendarItem by
// the SOAP layer.
package ewsxml

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/pimbridge/ewsgw/recurrence"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05Z07:00"
)

// EncodeRecurrence builds the <t:Recurrence> element: exactly one
// pattern child followed by exactly one range child.
func EncodeRecurrence(pr recurrence.PatternWithRange) (*etree.Element, error) {
	elem := etree.NewElement("t:Recurrence")

	pattern, err := encodePattern(pr.Pattern)
	if err != nil {
		return nil, err
	}
	elem.AddChild(pattern)

	rng, err := encodeRange(pr.Range)
	if err != nil {
		return nil, err
	}
	elem.AddChild(rng)

	return elem, nil
}

func encodePattern(p recurrence.Pattern) (*etree.Element, error) {
	switch p := p.(type) {
	case recurrence.AbsoluteYearly:
		elem := etree.NewElement("t:AbsoluteYearlyRecurrence")
		addText(elem, "t:DayOfMonth", strconv.Itoa(p.DayOfMonth))
		addText(elem, "t:Month", p.Month.String())
		return elem, nil
	case recurrence.RelativeYearly:
		elem := etree.NewElement("t:RelativeYearlyRecurrence")
		addText(elem, "t:DaysOfWeek", string(p.DaysOfWeek))
		addText(elem, "t:DayOfWeekIndex", string(p.DayOfWeekIndex))
		addText(elem, "t:Month", p.Month.String())
		return elem, nil
	case recurrence.AbsoluteMonthly:
		elem := etree.NewElement("t:AbsoluteMonthlyRecurrence")
		addText(elem, "t:Interval", strconv.Itoa(p.Interval))
		addText(elem, "t:DayOfMonth", strconv.Itoa(p.DayOfMonth))
		return elem, nil
	case recurrence.RelativeMonthly:
		elem := etree.NewElement("t:RelativeMonthlyRecurrence")
		addText(elem, "t:Interval", strconv.Itoa(p.Interval))
		addText(elem, "t:DaysOfWeek", string(p.DaysOfWeek))
		addText(elem, "t:DayOfWeekIndex", string(p.DayOfWeekIndex))
		return elem, nil
	case recurrence.Weekly:
		elem := etree.NewElement("t:WeeklyRecurrence")
		addText(elem, "t:Interval", strconv.Itoa(p.Interval))
		addText(elem, "t:DaysOfWeek", joinDays(p.DaysOfWeek))
		addText(elem, "t:FirstDayOfWeek", string(p.FirstDayOfWeek))
		return elem, nil
	case recurrence.Daily:
		elem := etree.NewElement("t:DailyRecurrence")
		addText(elem, "t:Interval", strconv.Itoa(p.Interval))
		return elem, nil
	}
	return nil, fmt.Errorf("unknown pattern type %T", p)
}

func encodeRange(r recurrence.Range) (*etree.Element, error) {
	switch r := r.(type) {
	case recurrence.EndDateRange:
		elem := etree.NewElement("t:EndDateRecurrence")
		addText(elem, "t:StartDate", r.Start.Format(dateLayout))
		addText(elem, "t:EndDate", r.End.Format(dateLayout))
		return elem, nil
	case recurrence.NumberedRange:
		elem := etree.NewElement("t:NumberedRecurrence")
		addText(elem, "t:StartDate", r.Start.Format(dateLayout))
		addText(elem, "t:NumberOfOccurrences", strconv.Itoa(r.Count))
		return elem, nil
	case recurrence.NoEndRange:
		elem := etree.NewElement("t:NoEndRecurrence")
		addText(elem, "t:StartDate", r.Start.Format(dateLayout))
		return elem, nil
	}
	return nil, fmt.Errorf("unknown range type %T", r)
}

// EncodeDeletedOccurrences builds <t:DeletedOccurrences>, one child per
// deleted instant. Returns nil when there is nothing to delete, so the
// caller can omit the element entirely.
func EncodeDeletedOccurrences(deleted []time.Time) *etree.Element {
	if len(deleted) == 0 {
		return nil
	}
	elem := etree.NewElement("t:DeletedOccurrences")
	for _, t := range deleted {
		occ := elem.CreateElement("t:DeletedOccurrence")
		addText(occ, "t:Start", t.Format(dateTimeLayout))
	}
	return elem
}

// EncodeModifiedOccurrences builds <t:ModifiedOccurrences>, one child
// per modified occurrence carrying the original start plus the new
// start/end pair.
func EncodeModifiedOccurrences(modified []recurrence.Occurrence) *etree.Element {
	if len(modified) == 0 {
		return nil
	}
	elem := etree.NewElement("t:ModifiedOccurrences")
	for _, occ := range modified {
		child := elem.CreateElement("t:Occurrence")
		addText(child, "t:Start", occ.Start.Format(dateTimeLayout))
		addText(child, "t:End", occ.End.Format(dateTimeLayout))
		addText(child, "t:OriginalStart", occ.OriginalStart.Format(dateTimeLayout))
	}
	return elem
}

func addText(parent *etree.Element, tag, text string) {
	parent.CreateElement(tag).SetText(text)
}

func joinDays(days []recurrence.DayOfWeek) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, string(d))
	}
	return strings.Join(names, " ")
}
