package recurrence

import (
	"io"
	"log/slog"
	"sort"
)

// Resolver reconciles exclusion rules and per-occurrence overrides
// against an item's base recurrence. It holds no state beyond its
// logger; every call is independently reentrant.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards the warnings
// emitted for dropped exclusions and stray overrides.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{logger: logger}
}

// ResolveExceptions produces the item's deleted- and modified-
// occurrence sets. Exclusion rules are expanded to deleted instants;
// override entries become either deleted instants or modified
// occurrences, depending on their patch. The two passes share the base
// rule's expansion but are otherwise independent.
func (rs *Resolver) ResolveExceptions(item ItemSnapshot) (ExceptionResult, error) {
	if len(item.Rules) > 1 {
		return ExceptionResult{}, ErrMultipleRules
	}

	var result ExceptionResult

	if err := rs.resolveExclusions(item, &result); err != nil {
		return ExceptionResult{}, err
	}
	if err := rs.resolveOverrides(item, &result); err != nil {
		return ExceptionResult{}, err
	}

	return result, nil
}

// resolveExclusions expands each exclusion sub-rule into deleted
// instants. An open-ended exclusion borrows the base rule's last
// occurrence as its implicit end; an exclusion that still has no bound
// (unbounded exclusion against an unbounded base) is inexpressible and
// is logged and dropped rather than expanded forever.
func (rs *Resolver) resolveExclusions(item ItemSnapshot, result *ExceptionResult) error {
	for _, exclusion := range item.Exclusions {
		bounded := exclusion
		if !bounded.Bounded() && len(item.Rules) == 1 {
			last, err := LastOccurrence(item.Rules[0], item)
			if err != nil {
				return err
			}
			if occ, ok := last.Get(); ok {
				loc, err := item.Location()
				if err != nil {
					return err
				}
				bounded.Until = occ.Start.In(loc).Format(layoutLocal)
			}
		}
		if !bounded.Bounded() {
			rs.logger.Warn("dropping exclusion rule with no determinable bound",
				"item", item.ID)
			continue
		}
		instants, err := expandAll(bounded, item)
		if err != nil {
			return err
		}
		result.Deleted = append(result.Deleted, instants...)
	}
	return nil
}

// resolveOverrides walks the override map in ascending key order.
// A key that matches no generated occurrence is skipped with a warning
// when a base rule exists; without a base rule it would be an additive
// ad-hoc occurrence, which the target schema cannot express.
func (rs *Resolver) resolveOverrides(item ItemSnapshot, result *ExceptionResult) error {
	if len(item.Overrides) == 0 {
		return nil
	}

	keys := make([]string, 0, len(item.Overrides))
	for key := range item.Overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loc, err := item.Location()
	if err != nil {
		return err
	}

	for _, key := range keys {
		patch := item.Overrides[key]

		instant, parseErr := ParseInstant(key, loc)
		matched := false
		if parseErr == nil && len(item.Rules) == 1 {
			matched, err = occursOnDay(item.Rules[0], item, instant)
			if err != nil {
				return err
			}
		}

		if !matched {
			if len(item.Rules) == 0 {
				return ErrAdditionalOccurrenceUnsupported
			}
			if parseErr != nil {
				rs.logger.Warn("override key is not a parseable date-time; skipping",
					"item", item.ID,
					"key", key,
					"error", parseErr)
			} else {
				rs.logger.Warn("override matches no generated occurrence; skipping",
					"item", item.ID,
					"key", key)
			}
			continue
		}

		// Only a bare {"excluded": true} deletes the instance; a patch
		// carrying field edits is a modification even if flagged.
		if len(patch) == 1 && patch.Excluded() {
			result.Deleted = append(result.Deleted, instant)
			continue
		}

		occ, err := applyOverridePatch(item, instant, patch)
		if err != nil {
			return err
		}
		result.Modified = append(result.Modified, occ)
	}
	return nil
}
