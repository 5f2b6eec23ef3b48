package engine

import (
	"github.com/nathoo/roguecore/engine/filter"
	"github.com/nathoo/roguecore/engine/query"
	"github.com/nathoo/roguecore/engine/selector"
	"github.com/nathoo/roguecore/types"
)

// ExecuteQuery resolves q against the catalog and run state, then draws up to
// q.Count results by weight. Publishes query_complete with the results.
func (e *Engine) ExecuteQuery(q *types.Query) []*types.ActionDef {
	if q == nil {
		return []*types.ActionDef{}
	}

	eff := query.Merge(q)
	cands := query.Filter(eff, query.Candidates(eff, e.Catalog), e.State)
	results := selector.Select(cands, q)

	ids := make([]string, len(results))
	for i, a := range results {
		ids[i] = a.ID
	}
	e.logger.Debug("query complete",
		"pool", eff.PoolTags,
		"mode", eff.Mode,
		"filter", filter.Describe(eff.Filter),
		"candidates", len(cands),
		"results", ids,
	)
	e.Bus.Publish(types.Event{
		Type: types.EventQueryComplete,
		Data: map[string]any{"query": q, "results": ids},
	})
	return results
}

// QuerySimple draws count results from a preset with default query settings.
func (e *Engine) QuerySimple(preset *types.PoolPreset, count int) []*types.ActionDef {
	q := query.New()
	q.Preset = preset
	q.Count = count
	return e.ExecuteQuery(q)
}

// QueryByTag draws count results from one pool tag, offering new actions and
// held actions that can still stack.
func (e *Engine) QueryByTag(tag string, count int) []*types.ActionDef {
	q := query.New()
	q.PoolTags = []string{tag}
	q.Count = count
	q.Mode = types.ModeNewOrAcquired
	return e.ExecuteQuery(q)
}

// Candidates returns the eligible actions for q before weighted selection.
func (e *Engine) Candidates(q *types.Query) []*types.ActionDef {
	if q == nil {
		return []*types.ActionDef{}
	}
	return query.Resolve(q, e.Catalog, e.State)
}
