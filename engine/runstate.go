package engine

import (
	"maps"

	"github.com/nathoo/roguecore/engine/effects"
	"github.com/nathoo/roguecore/engine/filter"
	"github.com/nathoo/roguecore/engine/save"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// AddTag activates a run tag. Publishes tag_added only when it was inactive.
func (e *Engine) AddTag(tag string) {
	if tag == "" || e.State.ActiveTags[tag] {
		return
	}
	e.State.ActiveTags[tag] = true
	e.Bus.Publish(effects.TagChanged(types.EventTagAdded, tag))
}

// RemoveTag deactivates a run tag. Publishes tag_removed only when it was active.
func (e *Engine) RemoveTag(tag string) {
	if !e.State.ActiveTags[tag] {
		return
	}
	delete(e.State.ActiveTags, tag)
	e.Bus.Publish(effects.TagChanged(types.EventTagRemoved, tag))
}

// HasTag reports whether tag is active.
func (e *Engine) HasTag(tag string) bool {
	return state.HasTag(e.State, tag)
}

// Tags returns the active tags in sorted order.
func (e *Engine) Tags() []string {
	return state.SortedTags(e.State)
}

// SetValue overwrites a stat. Nothing happens, and nothing is published,
// when the new value is approximately the current one.
func (e *Engine) SetValue(key string, v float64) {
	old := state.NumericValue(e.State, key, 0)
	if filter.NearlyEqual(old, v) {
		return
	}
	state.SetNumericValue(e.State, key, v)
	e.Bus.Publish(effects.ValueChanged(key, old, v))
}

// Value returns a stat, or def when it is unset.
func (e *Engine) Value(key string, def float64) float64 {
	return state.NumericValue(e.State, key, def)
}

// AddValue adds delta to a stat and returns the result.
func (e *Engine) AddValue(key string, delta float64) float64 {
	old := state.NumericValue(e.State, key, 0)
	next := old + delta
	if !filter.NearlyEqual(old, next) {
		state.SetNumericValue(e.State, key, next)
		e.Bus.Publish(effects.ValueChanged(key, old, next))
	}
	return next
}

// Values returns a copy of every stat.
func (e *Engine) Values() map[string]float64 {
	return maps.Clone(e.State.Numeric)
}

// Equip places a held action in slot. Fails for a nil action, an empty slot
// tag, an action the run does not hold, or one already in the slot. Slot
// capacity is the caller's concern; see IsSlotFull.
func (e *Engine) Equip(a *types.ActionDef, slot string) bool {
	if a == nil || slot == "" {
		return false
	}
	if !state.HasAction(e.State, a.ID) {
		return false
	}
	if state.InSlot(e.State, slot, a.ID) {
		return false
	}
	e.State.Slots[slot] = append(e.State.Slots[slot], a.ID)
	e.known[a.ID] = a
	return true
}

// Unequip removes an action from slot. No-op when it is not there.
func (e *Engine) Unequip(a *types.ActionDef, slot string) {
	if a == nil || slot == "" {
		return
	}
	ids := e.State.Slots[slot]
	for i, id := range ids {
		if id == a.ID {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(e.State.Slots, slot)
	} else {
		e.State.Slots[slot] = ids
	}
}

// SlotContents returns the actions equipped in slot, in equip order.
func (e *Engine) SlotContents(slot string) []*types.ActionDef {
	var out []*types.ActionDef
	for _, id := range e.State.Slots[slot] {
		if a := e.lookup(id); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// SlotCount returns how many actions are in slot.
func (e *Engine) SlotCount(slot string) int {
	return state.SlotCount(e.State, slot)
}

// IsSlotFull reports whether slot holds at least capacity actions.
func (e *Engine) IsSlotFull(slot string, capacity int) bool {
	return state.IsSlotFull(e.State, slot, capacity)
}

// CreateSnapshot captures the run in the logical save format.
func (e *Engine) CreateSnapshot() *types.SaveData {
	return save.Snapshot(e.State, e.PlayTime())
}

// RestoreFromSnapshot replaces the run with sd. The restored run is active;
// unresolvable references are dropped.
func (e *Engine) RestoreFromSnapshot(sd *types.SaveData) {
	save.Restore(e.State, sd, e)

	known := map[string]*types.ActionDef{}
	for id := range e.State.Acquired {
		if a, ok := e.Resolve(id); ok {
			known[id] = a
		}
	}
	for _, ids := range e.State.Slots {
		for _, id := range ids {
			if a, ok := e.Resolve(id); ok {
				known[id] = a
			}
		}
	}
	e.known = known
	e.started = e.now()
	e.playOffset = 0
	if sd != nil {
		e.playOffset = sd.PlayTime
	}

	e.logger.Debug("run restored", "run_id", e.State.RunID, "acquired", len(e.State.Acquired))
}
