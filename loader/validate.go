package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/roguecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) addError(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) addWarning(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Known value application modes.
var validApplyModes = map[types.ApplyMode]bool{
	types.ApplyAdd:      true,
	types.ApplyMultiply: true,
	types.ApplySet:      true,
	types.ApplyMax:      true,
	types.ApplyMin:      true,
}

// Known query modes. Custom is valid only with a filter.
var validQueryModes = map[types.QueryMode]bool{
	types.ModeAll:           true,
	types.ModeOnlyNew:       true,
	types.ModeOnlyAcquired:  true,
	types.ModeNewOrAcquired: true,
	types.ModeCustom:        true,
}

// Known comparison operators.
var validOps = map[types.CompareOp]bool{
	types.OpEqual:          true,
	types.OpNotEqual:       true,
	types.OpGreater:        true,
	types.OpGreaterOrEqual: true,
	types.OpLess:           true,
	types.OpLessOrEqual:    true,
}

// validate checks compiled content for consistency, recording problems on ve.
func validate(content *types.Content, ve *ValidationError) {
	tagged := map[string]bool{}
	granted := map[string]bool{}

	if content.Meta.Title == "" {
		ve.addWarning("content has no title; add Content { title = ... }")
	}
	if len(content.Actions) == 0 {
		ve.addWarning("content defines no actions")
	}

	for _, a := range content.Actions {
		if a.ID == "" {
			ve.addError("action with empty ID")
		}
		if a.BaseWeight < 0 {
			ve.addError("action %q has negative weight %g", a.ID, a.BaseWeight)
		}
		if a.MaxStacks < 0 {
			ve.addError("action %q has negative max_stacks %d", a.ID, a.MaxStacks)
		}
		for i, v := range a.Values {
			if v.Key == "" {
				ve.addError("action %q value %d has an empty key", a.ID, i+1)
			}
			if !validApplyModes[v.Mode] {
				ve.addError("action %q value %q has unknown mode %q", a.ID, v.Key, v.Mode)
			}
		}
		for _, tag := range a.Tags {
			tagged[tag] = true
			if a.AutoGrantTags {
				granted[tag] = true
			}
		}
	}

	for _, id := range sortedKeys(content.Presets) {
		p := content.Presets[id]
		if !validQueryModes[p.DefaultMode] {
			ve.addError("preset %q has unknown mode %q", id, p.DefaultMode)
		}
		if p.DefaultMode == types.ModeCustom && p.Filter == nil {
			ve.addWarning("preset %q uses custom mode without a filter", id)
		}
		for _, tag := range p.PoolTags {
			if !tagged[tag] {
				ve.addWarning("preset %q pool tag %q matches no action", id, tag)
			}
		}
	}

	for _, slot := range sortedKeys(content.SlotCapacity) {
		if c := content.SlotCapacity[slot]; c <= 0 {
			ve.addError("slot %q has non-positive capacity %d", slot, c)
		}
	}

	// Warnings: requirements nothing grants. Tags may still be added by the
	// host at run time.
	for _, a := range content.Actions {
		for _, tag := range a.RequiredTags {
			if !granted[tag] {
				ve.addWarning("action %q requires tag %q which no action grants", a.ID, tag)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
