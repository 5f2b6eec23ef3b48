// Package effects applies and reverses an action's automatic side effects on
// the run state. Every mutation is committed before this package returns; the
// returned events describe what changed and are published by the caller.
package effects

import (
	"github.com/nathoo/roguecore/engine/filter"
	"github.com/nathoo/roguecore/types"
)

// ApplyValue folds value into the stat key using mode and returns the prior
// and resulting values. Unset stats start at 0. Unknown modes leave the value
// unchanged but still store it.
func ApplyValue(s *types.RunState, key string, value float64, mode types.ApplyMode) (float64, float64) {
	old := s.Numeric[key]
	next := old

	switch mode {
	case types.ApplyAdd:
		next = old + value
	case types.ApplyMultiply:
		next = old * value
	case types.ApplySet:
		next = value
	case types.ApplyMax:
		if value > old {
			next = value
		}
	case types.ApplyMin:
		if value < old {
			next = value
		}
	}

	s.Numeric[key] = next
	return old, next
}

// Apply runs the action's auto effects for stacks newly added stacks. Each
// value entry is applied once per stack when the action auto-applies; then,
// when it auto-grants tags, all of its tags become active.
func Apply(s *types.RunState, a *types.ActionDef, stacks int) []types.Event {
	if a == nil || stacks <= 0 {
		return nil
	}

	var events []types.Event

	if a.AutoApply {
		for _, entry := range a.Values {
			for i := 0; i < stacks; i++ {
				old, next := ApplyValue(s, entry.Key, entry.Value, entry.Mode)
				if !filter.NearlyEqual(old, next) {
					events = append(events, ValueChanged(entry.Key, old, next))
				}
			}
		}
	}

	if a.AutoGrantTags {
		for _, tag := range a.Tags {
			if tag == "" || s.ActiveTags[tag] {
				continue
			}
			s.ActiveTags[tag] = true
			events = append(events, TagChanged(types.EventTagAdded, tag))
		}
	}

	return events
}

// Reverse undoes the auto effects of stacks removed stacks where an inverse
// exists. Add entries subtract, Multiply entries divide unless the factor is
// exactly 0. Set, Max and Min have no inverse. Granted tags are never revoked
// since another held action may have granted the same tag.
func Reverse(s *types.RunState, a *types.ActionDef, stacks int) []types.Event {
	if a == nil || stacks <= 0 || !a.AutoApply {
		return nil
	}

	var events []types.Event
	for _, entry := range a.Values {
		if !Reversible(entry) {
			continue
		}
		for i := 0; i < stacks; i++ {
			var old, next float64
			if entry.Mode == types.ApplyAdd {
				old, next = ApplyValue(s, entry.Key, -entry.Value, types.ApplyAdd)
			} else {
				old, next = ApplyValue(s, entry.Key, 1/entry.Value, types.ApplyMultiply)
			}
			if !filter.NearlyEqual(old, next) {
				events = append(events, ValueChanged(entry.Key, old, next))
			}
		}
	}
	return events
}

// Reversible reports whether removing a stack can undo entry.
func Reversible(entry types.ValueEntry) bool {
	switch entry.Mode {
	case types.ApplyAdd:
		return true
	case types.ApplyMultiply:
		return entry.Value != 0
	}
	return false
}

// ValueChanged builds a value_changed event.
func ValueChanged(key string, old, next float64) types.Event {
	return types.Event{
		Type: types.EventValueChanged,
		Data: map[string]any{"key": key, "old_value": old, "new_value": next},
	}
}

// TagChanged builds a tag_added or tag_removed event.
func TagChanged(eventType, tag string) types.Event {
	return types.Event{
		Type: eventType,
		Data: map[string]any{"tag": tag},
	}
}
