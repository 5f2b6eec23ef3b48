package engine

import (
	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/effects"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// PreAcquireCheck vetoes an acquisition by returning false. Checks run
// synchronously and must not call back into acquisition.
type PreAcquireCheck func(a *types.ActionDef, s *types.RunState) bool

// CheckHandle identifies a registered check.
type CheckHandle int

type preAcquireCheck struct {
	handle CheckHandle
	fn     PreAcquireCheck
}

// RegisterPreAcquireCheck adds a check consulted before every acquisition,
// in registration order.
func (e *Engine) RegisterPreAcquireCheck(fn PreAcquireCheck) CheckHandle {
	e.nextCheck++
	e.checks = append(e.checks, preAcquireCheck{handle: e.nextCheck, fn: fn})
	return e.nextCheck
}

// UnregisterPreAcquireCheck removes a check. Unknown handles are ignored.
func (e *Engine) UnregisterPreAcquireCheck(h CheckHandle) {
	for i, c := range e.checks {
		if c.handle == h {
			e.checks = append(e.checks[:i:i], e.checks[i+1:]...)
			return
		}
	}
}

// FilterCheck adapts a filter into a pre-acquire check.
func FilterCheck(f types.Filter) PreAcquireCheck {
	return func(a *types.ActionDef, s *types.RunState) bool {
		return f == nil || f.Passes(a, s)
	}
}

// TryAcquire adds stacks of a, capped at its max stacks. The returned error
// is one of the Err* sentinels; the run state is untouched on failure.
func (e *Engine) TryAcquire(a *types.ActionDef, stacks int) error {
	if a == nil || a.ID == "" {
		return ErrInvalidAction
	}
	if !e.State.Active {
		return ErrRunNotActive
	}
	if stacks <= 0 {
		return ErrInvalidStackCount
	}
	for _, c := range e.checks {
		if c.fn != nil && !c.fn(a, e.State) {
			e.logger.Debug("acquire vetoed", "action", a.ID)
			return ErrPreAcquireCheckFailed
		}
	}

	oldStacks := state.Stacks(e.State, a.ID)
	newStacks := oldStacks + stacks
	if a.MaxStacks > 0 && newStacks > a.MaxStacks {
		newStacks = a.MaxStacks
	}
	if newStacks == oldStacks {
		return ErrAlreadyAtMax
	}

	info := e.State.Acquired[a.ID]
	if oldStacks == 0 {
		info.AcquiredAt = e.elapsed()
	}
	info.Stacks = newStacks
	e.State.Acquired[a.ID] = info
	e.known[a.ID] = a

	evs := effects.Apply(e.State, a, newStacks-oldStacks)

	e.logger.Debug("action acquired", "action", a.ID, "old_stacks", oldStacks, "new_stacks", newStacks)
	e.Bus.Publish(evs...)
	e.Bus.Publish(stackEvent(types.EventActionAcquired, a, oldStacks, newStacks))
	e.Bus.Publish(stackEvent(types.EventStackChanged, a, oldStacks, newStacks))
	return nil
}

// Acquire is TryAcquire without the reason.
func (e *Engine) Acquire(a *types.ActionDef, stacks int) bool {
	return e.TryAcquire(a, stacks) == nil
}

// RemoveAction removes stacks of a, or every stack with removeAll, reversing
// the reversible part of its effects. Slots are not touched. Returns false
// when nothing was removed.
func (e *Engine) RemoveAction(a *types.ActionDef, stacks int, removeAll bool) bool {
	if a == nil || !state.HasAction(e.State, a.ID) {
		return false
	}

	oldStacks := state.Stacks(e.State, a.ID)
	newStacks := 0
	if !removeAll {
		newStacks = max(0, oldStacks-stacks)
	}
	removed := oldStacks - newStacks
	if removed <= 0 {
		return false
	}

	evs := effects.Reverse(e.State, a, removed)
	for _, entry := range a.Values {
		if a.AutoApply && !effects.Reversible(entry) {
			e.logger.Debug("effect not reversed", "action", a.ID, "key", entry.Key, "mode", entry.Mode)
		}
	}

	if newStacks == 0 {
		delete(e.State.Acquired, a.ID)
	} else {
		info := e.State.Acquired[a.ID]
		info.Stacks = newStacks
		e.State.Acquired[a.ID] = info
	}

	e.logger.Debug("action removed", "action", a.ID, "old_stacks", oldStacks, "new_stacks", newStacks)
	e.Bus.Publish(evs...)
	e.Bus.Publish(stackEvent(types.EventActionRemoved, a, oldStacks, newStacks))
	e.Bus.Publish(stackEvent(types.EventStackChanged, a, oldStacks, newStacks))
	return true
}

// HasAction reports whether the run holds at least one stack of a.
func (e *Engine) HasAction(a *types.ActionDef) bool {
	return a != nil && state.HasAction(e.State, a.ID)
}

// Stacks returns the run's stack count for a.
func (e *Engine) Stacks(a *types.ActionDef) int {
	if a == nil {
		return 0
	}
	return state.Stacks(e.State, a.ID)
}

// AllAcquired returns the held actions in acquisition order.
func (e *Engine) AllAcquired() []*types.ActionDef {
	var out []*types.ActionDef
	for _, id := range state.AcquiredIDs(e.State) {
		if a := e.lookup(id); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// AcquiredWithTag returns the held actions carrying tag.
func (e *Engine) AcquiredWithTag(tag string) []*types.ActionDef {
	var out []*types.ActionDef
	for _, a := range e.AllAcquired() {
		if catalog.HasTag(a, tag) {
			out = append(out, a)
		}
	}
	return out
}

func stackEvent(eventType string, a *types.ActionDef, oldStacks, newStacks int) types.Event {
	return types.Event{
		Type: eventType,
		Data: map[string]any{"action": a.ID, "old_stacks": oldStacks, "new_stacks": newStacks},
	}
}
