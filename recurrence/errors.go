package recurrence

import "errors"

// Translation errors. All are deterministic for a given input; none is
// retryable without changing the input. Callers match with errors.Is
// and treat the single item's translation as failed.
var (
	// ErrMultipleRules: more than one recurrence rule attached to one
	// item. The EWS schema carries exactly one pattern per item.
	ErrMultipleRules = errors.New("item has more than one recurrence rule")

	// ErrUnsupportedRule: the rule uses fields with no EWS equivalent
	// (sub-daily granularity, week numbers, year days, or multiple
	// set positions).
	ErrUnsupportedRule = errors.New("recurrence rule not representable in EWS")

	// ErrUnsupportedDaySet: byDay names a combination that is neither a
	// single day nor one of the weekday/weekend/every-day aggregates.
	ErrUnsupportedDaySet = errors.New("day combination not representable in EWS")

	// ErrMissingData: a discriminating field required for the chosen
	// frequency is absent.
	ErrMissingData = errors.New("recurrence rule is missing required data")

	// ErrMissingStartDate: the item has no start (and, for tasks, no
	// due date) to anchor the recurrence.
	ErrMissingStartDate = errors.New("item has no start date")

	// ErrNoOccurrences: a structurally valid rule expanded to an empty
	// series, e.g. an until bound before the anchoring start.
	ErrNoOccurrences = errors.New("recurrence rule yields no occurrences")

	// ErrMonthRange: a byMonth token is outside 1..12.
	ErrMonthRange = errors.New("month out of range")

	// ErrUnsupportedInstanceIndex: an instance index outside
	// {1, 2, 3, 4, -1}.
	ErrUnsupportedInstanceIndex = errors.New("unsupported instance index")

	// ErrAdditionalOccurrenceUnsupported: an override key matches no
	// generated occurrence and the item has no base rule, i.e. an
	// additive ad-hoc occurrence.
	ErrAdditionalOccurrenceUnsupported = errors.New("additional occurrences are not supported")

	// ErrPatchResultIncomplete: applying an override patch left the
	// working copy without a resolved start or end.
	ErrPatchResultIncomplete = errors.New("override patch left occurrence without start or end")
)
