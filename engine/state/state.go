// Package state provides lookups over the mutable run state.
// Mutation with side effects (events, stacks, effects) lives in engine and
// engine/effects; these helpers only read or perform single-field writes.
package state

import (
	"sort"

	"github.com/nathoo/roguecore/types"
)

// New creates an empty, inactive run state.
func New() *types.RunState {
	s := &types.RunState{}
	Reset(s)
	return s
}

// Reset clears every collection and marks the run inactive.
func Reset(s *types.RunState) {
	s.Active = false
	s.RunID = ""
	s.Seed = 0
	s.Acquired = map[string]types.AcquiredInfo{}
	s.Slots = map[string][]string{}
	s.ActiveTags = map[string]bool{}
	s.Numeric = map[string]float64{}
}

// HasAction returns true if the action is acquired with at least one stack.
func HasAction(s *types.RunState, id string) bool {
	info, ok := s.Acquired[id]
	return ok && info.Stacks > 0
}

// Stacks returns the stack count for an action. Unacquired actions return 0.
func Stacks(s *types.RunState, id string) int {
	return s.Acquired[id].Stacks
}

// NumericValue returns a stat, or def when the key is unset.
func NumericValue(s *types.RunState, key string, def float64) float64 {
	if v, ok := s.Numeric[key]; ok {
		return v
	}
	return def
}

// SetNumericValue overwrites a stat.
func SetNumericValue(s *types.RunState, key string, v float64) {
	s.Numeric[key] = v
}

// HasTag returns true if the tag is active for the run.
func HasTag(s *types.RunState, tag string) bool {
	return s.ActiveTags[tag]
}

// SortedTags returns the active tags in lexical order.
func SortedTags(s *types.RunState) []string {
	tags := make([]string, 0, len(s.ActiveTags))
	for tag, on := range s.ActiveTags {
		if on {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// AcquiredIDs returns acquired action IDs ordered by first acquisition time,
// ties broken by ID.
func AcquiredIDs(s *types.RunState) []string {
	ids := make([]string, 0, len(s.Acquired))
	for id, info := range s.Acquired {
		if info.Stacks > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		ai, aj := s.Acquired[ids[i]].AcquiredAt, s.Acquired[ids[j]].AcquiredAt
		if ai != aj {
			return ai < aj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// SortedNumericKeys returns stat keys in lexical order.
func SortedNumericKeys(s *types.RunState) []string {
	keys := make([]string, 0, len(s.Numeric))
	for k := range s.Numeric {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedSlots returns slot tags that hold at least one action, in lexical order.
func SortedSlots(s *types.RunState) []string {
	slots := make([]string, 0, len(s.Slots))
	for slot, ids := range s.Slots {
		if len(ids) > 0 {
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)
	return slots
}

// SlotContents returns a copy of the action IDs equipped in slot.
func SlotContents(s *types.RunState, slot string) []string {
	ids := s.Slots[slot]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// SlotCount returns how many actions are equipped in slot.
func SlotCount(s *types.RunState, slot string) int {
	return len(s.Slots[slot])
}

// IsSlotFull returns true when the slot holds at least capacity actions.
func IsSlotFull(s *types.RunState, slot string, capacity int) bool {
	return SlotCount(s, slot) >= capacity
}

// InSlot returns true if the action is equipped in slot.
func InSlot(s *types.RunState, slot, id string) bool {
	for _, v := range s.Slots[slot] {
		if v == id {
			return true
		}
	}
	return false
}
