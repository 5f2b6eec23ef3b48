// Package selector performs weighted random sampling without replacement
// over query candidates.
package selector

import (
	"sort"

	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/rng"
	"github.com/nathoo/roguecore/types"
)

// Weights returns the effective weight of each candidate: its base weight
// multiplied by the modifier of every tag it carries, floored at 0.
// Modifiers are applied in sorted key order so results are bit-stable.
func Weights(cands []*types.ActionDef, modifiers map[string]float64) []float64 {
	keys := make([]string, 0, len(modifiers))
	for k := range modifiers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	weights := make([]float64, len(cands))
	for i, a := range cands {
		w := a.BaseWeight
		for _, k := range keys {
			if catalog.HasTag(a, k) {
				w *= modifiers[k]
			}
		}
		if w < 0 {
			w = 0
		}
		weights[i] = w
	}
	return weights
}

// Select picks up to q.Count candidates. When there are no more candidates
// than requested, all of them are returned in order. Otherwise a stream
// seeded from q.Seed (random when 0) drives the sampling.
func Select(cands []*types.ActionDef, q *types.Query) []*types.ActionDef {
	if q == nil || q.Count <= 0 || len(cands) == 0 {
		return []*types.ActionDef{}
	}
	if len(cands) <= q.Count {
		out := make([]*types.ActionDef, len(cands))
		copy(out, cands)
		return out
	}
	return Sample(rng.ForQuery(q.Seed), cands, Weights(cands, q.WeightModifiers), q.Count)
}

// Sample draws count entries from cands without replacement. Each round the
// remaining weights are summed; if the total is not positive the pick is
// uniform, otherwise the first positive-weight candidate whose cumulative
// weight reaches the draw is taken.
func Sample(r *rng.RNG, cands []*types.ActionDef, weights []float64, count int) []*types.ActionDef {
	remaining := make([]int, len(cands))
	for i := range remaining {
		remaining[i] = i
	}

	out := make([]*types.ActionDef, 0, count)
	for len(out) < count && len(remaining) > 0 {
		total := 0.0
		for _, idx := range remaining {
			total += weights[idx]
		}

		var pick int
		if total <= 0 {
			pick = r.Intn(len(remaining))
		} else {
			pick = walk(remaining, weights, r.Float64()*total)
		}

		out = append(out, cands[remaining[pick]])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return out
}

// walk returns the position in remaining selected by draw. Rounding can leave
// draw above the final cumulative sum; the last positive-weight entry wins then.
func walk(remaining []int, weights []float64, draw float64) int {
	cumulative := 0.0
	last := 0
	for j, idx := range remaining {
		w := weights[idx]
		if w <= 0 {
			continue
		}
		cumulative += w
		last = j
		if cumulative >= draw {
			return j
		}
	}
	return last
}
