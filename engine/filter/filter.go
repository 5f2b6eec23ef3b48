// Package filter implements the composable predicate tree used by queries and
// presets. Each filter is a plain value satisfying types.Filter; composites
// hold child filters and evaluate them in order.
package filter

import (
	"math"

	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// Epsilon is the tolerance for approximate equality in value comparisons.
const Epsilon = 1e-8

// Base passes every action.
type Base struct{}

func (Base) Passes(*types.ActionDef, *types.RunState) bool { return true }

// IsAcquired passes actions the run has at least one stack of.
type IsAcquired struct{}

func (IsAcquired) Passes(a *types.ActionDef, s *types.RunState) bool {
	return a != nil && state.HasAction(s, a.ID)
}

// NotAcquired passes actions the run does not have.
type NotAcquired struct{}

func (NotAcquired) Passes(a *types.ActionDef, s *types.RunState) bool {
	return a != nil && !state.HasAction(s, a.ID)
}

// NotMaxStacked passes actions whose current stacks are below their cap.
type NotMaxStacked struct{}

func (NotMaxStacked) Passes(a *types.ActionDef, s *types.RunState) bool {
	if a == nil {
		return false
	}
	return !catalog.IsMaxStacked(a, state.Stacks(s, a.ID))
}

// HasTags passes actions carrying all (RequireAll) or any of Tags.
// An empty tag set passes.
type HasTags struct {
	Tags       []string
	RequireAll bool
}

func (f HasTags) Passes(a *types.ActionDef, _ *types.RunState) bool {
	if a == nil {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	if f.RequireAll {
		return catalog.HasAllTags(a, f.Tags)
	}
	return catalog.HasAnyTags(a, f.Tags)
}

// ValueCompare compares a number against Value. With UseRunState the number
// is the run's stat Key (default 0); otherwise it is the action's own value
// entry for Key (default 0).
type ValueCompare struct {
	Key         string
	Op          types.CompareOp
	Value       float64
	UseRunState bool
}

func (f ValueCompare) Passes(a *types.ActionDef, s *types.RunState) bool {
	if a == nil || f.Key == "" {
		return false
	}

	var v float64
	if f.UseRunState {
		v = state.NumericValue(s, f.Key, 0)
	} else {
		v = catalog.Value(a, f.Key, 0)
	}
	return Compare(v, f.Op, f.Value)
}

// Compare applies op to lhs and rhs. Equality is approximate.
// Unknown operators never match.
func Compare(lhs float64, op types.CompareOp, rhs float64) bool {
	switch op {
	case types.OpEqual:
		return NearlyEqual(lhs, rhs)
	case types.OpNotEqual:
		return !NearlyEqual(lhs, rhs)
	case types.OpGreater:
		return lhs > rhs
	case types.OpGreaterOrEqual:
		return lhs >= rhs
	case types.OpLess:
		return lhs < rhs
	case types.OpLessOrEqual:
		return lhs <= rhs
	}
	return false
}

// NearlyEqual reports whether a and b differ by at most Epsilon.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// And passes when every non-nil child passes. Empty passes.
type And struct {
	Filters []types.Filter
}

func (f And) Passes(a *types.ActionDef, s *types.RunState) bool {
	for _, child := range f.Filters {
		if child == nil {
			continue
		}
		if !child.Passes(a, s) {
			return false
		}
	}
	return true
}

// Or passes when any non-nil child passes. Empty passes; a list holding only
// nil children fails.
type Or struct {
	Filters []types.Filter
}

func (f Or) Passes(a *types.ActionDef, s *types.RunState) bool {
	if len(f.Filters) == 0 {
		return true
	}
	for _, child := range f.Filters {
		if child == nil {
			continue
		}
		if child.Passes(a, s) {
			return true
		}
	}
	return false
}

// Not inverts its child. A nil child passes.
type Not struct {
	Filter types.Filter
}

func (f Not) Passes(a *types.ActionDef, s *types.RunState) bool {
	if f.Filter == nil {
		return true
	}
	return !f.Filter.Passes(a, s)
}

// ExcludeNewWithTag lets already-acquired actions through but blocks new
// actions carrying any of Tags.
type ExcludeNewWithTag struct {
	Tags []string
}

func (f ExcludeNewWithTag) Passes(a *types.ActionDef, s *types.RunState) bool {
	if a == nil {
		return false
	}
	if state.HasAction(s, a.ID) {
		return true
	}
	return !catalog.HasAnyTags(a, f.Tags)
}

// Func adapts a plain predicate into a filter.
type Func func(a *types.ActionDef, s *types.RunState) bool

func (f Func) Passes(a *types.ActionDef, s *types.RunState) bool {
	if f == nil {
		return true
	}
	return f(a, s)
}
