// Package recurrence translates recurring-event semantics between the
// backend store's declarative recurrence rules (frequency, interval,
// by-parts, count/until) and the EWS recurrence schema's closed set of
// typed patterns, and expands rules into concrete occurrences to
// resolve per-instance exclusions and overrides.
//
// Every entry point is a pure function over its arguments: no I/O, no
// shared state, and deterministic errors. Translation failures are
// per-item; callers converting a batch isolate them and keep going.
package recurrence
