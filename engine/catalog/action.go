package catalog

import "github.com/nathoo/roguecore/types"

// HasTag returns true if the action carries tag.
func HasTag(a *types.ActionDef, tag string) bool {
	if a == nil {
		return false
	}
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTags returns true if the action carries at least one of tags.
// An empty tag list never matches.
func HasAnyTags(a *types.ActionDef, tags []string) bool {
	for _, t := range tags {
		if HasTag(a, t) {
			return true
		}
	}
	return false
}

// HasAllTags returns true if the action carries every tag in tags.
// An empty tag list is vacuously true.
func HasAllTags(a *types.ActionDef, tags []string) bool {
	if a == nil {
		return false
	}
	for _, t := range tags {
		if !HasTag(a, t) {
			return false
		}
	}
	return true
}

// IsMaxStacked reports whether stacks has reached the action's cap.
// Actions with MaxStacks <= 0 are never maxed.
func IsMaxStacked(a *types.ActionDef, stacks int) bool {
	if a == nil || a.MaxStacks <= 0 {
		return false
	}
	return stacks >= a.MaxStacks
}

// MeetsConditions checks the action's own RequiredTags (all must be active)
// and BlockedByTags (none may be active) against the run's active tags.
func MeetsConditions(a *types.ActionDef, active map[string]bool) bool {
	if a == nil {
		return false
	}
	for _, t := range a.RequiredTags {
		if !active[t] {
			return false
		}
	}
	for _, t := range a.BlockedByTags {
		if active[t] {
			return false
		}
	}
	return true
}

// Value returns the first value entry for key, or def when the action has none.
func Value(a *types.ActionDef, key string, def float64) float64 {
	if a == nil {
		return def
	}
	for _, e := range a.Values {
		if e.Key == key {
			return e.Value
		}
	}
	return def
}

// DisplayName returns the action's name, falling back to its ID.
func DisplayName(a *types.ActionDef) string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
