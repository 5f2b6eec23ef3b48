// Package query resolves a query descriptor against the catalog and the run
// state, producing the filtered candidate list handed to the selector.
package query

import (
	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// DefaultCount is the number of results a new query asks for.
const DefaultCount = 3

// New returns a query with the standard defaults: three results, maxed
// actions excluded, every mode allowed.
func New() *types.Query {
	return &types.Query{
		Count:             DefaultCount,
		ExcludeMaxStacked: true,
		Mode:              types.ModeAll,
	}
}

// Effective is a query with its preset folded in.
type Effective struct {
	PoolTags          []string
	RequireTags       []string
	ExcludeTags       []string
	Mode              types.QueryMode
	ExcludeMaxStacked bool
	Filter            types.Filter
}

// Merge folds the query's preset into its explicit fields. Tag sets are
// unioned (query tags first). The preset's mode applies when the query left
// mode at all, its filter applies when the query has none, and
// exclude-max-stacked is set if either side sets it.
func Merge(q *types.Query) Effective {
	eff := Effective{
		PoolTags:          union(q.PoolTags, nil),
		RequireTags:       union(q.RequireTags, nil),
		ExcludeTags:       union(q.ExcludeTags, nil),
		Mode:              q.Mode,
		ExcludeMaxStacked: q.ExcludeMaxStacked,
		Filter:            q.Filter,
	}

	if p := q.Preset; p != nil {
		eff.PoolTags = union(eff.PoolTags, p.PoolTags)
		eff.RequireTags = union(eff.RequireTags, p.RequireTags)
		eff.ExcludeTags = union(eff.ExcludeTags, p.ExcludeTags)
		if isAll(q.Mode) {
			eff.Mode = p.DefaultMode
		}
		eff.ExcludeMaxStacked = eff.ExcludeMaxStacked || p.ExcludeMaxStacked
		if eff.Filter == nil {
			eff.Filter = p.Filter
		}
	}
	return eff
}

// Candidates collects the actions in the effective pool: every registered
// action when the pool is empty, otherwise the union of the pool tags' index
// sets.
func Candidates(eff Effective, cat *catalog.Catalog) []*types.ActionDef {
	if len(eff.PoolTags) == 0 {
		return cat.All()
	}
	return cat.ByTags(eff.PoolTags, false)
}

// PassesMode applies the eligibility policy for mode.
func PassesMode(a *types.ActionDef, s *types.RunState, mode types.QueryMode) bool {
	acquired := state.HasAction(s, a.ID)

	switch mode {
	case types.ModeOnlyNew:
		return !acquired
	case types.ModeOnlyAcquired:
		return acquired
	case types.ModeNewOrAcquired:
		return !acquired || !catalog.IsMaxStacked(a, state.Stacks(s, a.ID))
	}
	return true
}

// Filter keeps the candidates that survive, in order: require tags, exclude
// tags, the action's own conditions, the max-stack check, the mode check and
// the custom filter. Nil candidates are skipped.
func Filter(eff Effective, cands []*types.ActionDef, s *types.RunState) []*types.ActionDef {
	out := make([]*types.ActionDef, 0, len(cands))
	for _, a := range cands {
		if a == nil {
			continue
		}
		if len(eff.RequireTags) > 0 && !catalog.HasAllTags(a, eff.RequireTags) {
			continue
		}
		if len(eff.ExcludeTags) > 0 && catalog.HasAnyTags(a, eff.ExcludeTags) {
			continue
		}
		if !catalog.MeetsConditions(a, s.ActiveTags) {
			continue
		}
		if eff.ExcludeMaxStacked && catalog.IsMaxStacked(a, state.Stacks(s, a.ID)) {
			continue
		}
		if !PassesMode(a, s, eff.Mode) {
			continue
		}
		if eff.Filter != nil && !eff.Filter.Passes(a, s) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Resolve merges, collects and filters in one step.
func Resolve(q *types.Query, cat *catalog.Catalog, s *types.RunState) []*types.ActionDef {
	eff := Merge(q)
	return Filter(eff, Candidates(eff, cat), s)
}

func isAll(mode types.QueryMode) bool {
	return mode == "" || mode == types.ModeAll
}

// union appends the tags of b not already in a, keeping first-seen order.
func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, tag := range list {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
