package selector

import (
	"testing"

	"github.com/nathoo/roguecore/engine/rng"
	"github.com/nathoo/roguecore/types"
)

func weighted(id string, w float64, tags ...string) *types.ActionDef {
	return &types.ActionDef{ID: id, BaseWeight: w, Tags: tags, MaxStacks: 1}
}

func pool() []*types.ActionDef {
	return []*types.ActionDef{
		weighted("a", 1, "Rarity.Common"),
		weighted("b", 2, "Rarity.Common"),
		weighted("c", 3, "Rarity.Rare"),
		weighted("d", 4, "Rarity.Rare", "Element.Fire"),
		weighted("e", 5),
	}
}

func TestWeights_Modifiers(t *testing.T) {
	cands := pool()
	got := Weights(cands, map[string]float64{"Rarity.Rare": 2, "Element.Fire": 0.5})
	want := []float64{1, 2, 6, 4, 5}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected weight %v, got %v", cands[i].ID, want[i], got[i])
		}
	}
}

func TestWeights_NegativeFloored(t *testing.T) {
	got := Weights([]*types.ActionDef{weighted("a", 2, "X")}, map[string]float64{"X": -1})
	if got[0] != 0 {
		t.Errorf("expected negative weight floored to 0, got %v", got[0])
	}
}

func TestSelect_EmptyCases(t *testing.T) {
	if got := Select(pool(), &types.Query{Count: 0, Seed: 1}); len(got) != 0 {
		t.Errorf("expected empty for count 0, got %d", len(got))
	}
	if got := Select(nil, &types.Query{Count: 3, Seed: 1}); len(got) != 0 {
		t.Errorf("expected empty for no candidates, got %d", len(got))
	}
	if got := Select(pool(), nil); len(got) != 0 {
		t.Errorf("expected empty for nil query, got %d", len(got))
	}
}

func TestSelect_Exhaustive(t *testing.T) {
	cands := pool()
	got := Select(cands, &types.Query{Count: 10, Seed: 3})

	if len(got) != len(cands) {
		t.Fatalf("expected all %d candidates, got %d", len(cands), len(got))
	}
	for i := range cands {
		if got[i] != cands[i] {
			t.Errorf("position %d: expected %s, got %s", i, cands[i].ID, got[i].ID)
		}
	}
}

func TestSelect_Deterministic(t *testing.T) {
	q := &types.Query{Count: 3, Seed: 42}

	first := Select(pool(), q)
	for run := 0; run < 10; run++ {
		again := Select(pool(), q)
		for i := range first {
			if first[i].ID != again[i].ID {
				t.Fatalf("run %d position %d: expected %s, got %s", run, i, first[i].ID, again[i].ID)
			}
		}
	}
}

func TestSelect_NoDuplicates(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		got := Select(pool(), &types.Query{Count: 4, Seed: seed})
		if len(got) != 4 {
			t.Fatalf("seed %d: expected 4 results, got %d", seed, len(got))
		}
		seen := map[string]bool{}
		for _, a := range got {
			if seen[a.ID] {
				t.Fatalf("seed %d: %s selected twice", seed, a.ID)
			}
			seen[a.ID] = true
		}
	}
}

func TestSelect_ZeroWeightNeverChosenWhileOthersRemain(t *testing.T) {
	cands := []*types.ActionDef{
		weighted("zero", 0),
		weighted("one", 1),
		weighted("two", 1),
	}

	for seed := int64(1); seed <= 200; seed++ {
		got := Select(cands, &types.Query{Count: 2, Seed: seed})
		for _, a := range got {
			if a.ID == "zero" {
				t.Fatalf("seed %d: zero-weight candidate selected", seed)
			}
		}
	}
}

func TestSelect_UniformFallbackWhenAllZero(t *testing.T) {
	cands := []*types.ActionDef{weighted("a", 0), weighted("b", 0), weighted("c", 0)}
	counts := map[string]int{}

	for seed := int64(1); seed <= 300; seed++ {
		got := Select(cands, &types.Query{Count: 1, Seed: seed})
		if len(got) != 1 {
			t.Fatalf("seed %d: expected 1 result, got %d", seed, len(got))
		}
		counts[got[0].ID]++
	}
	for _, a := range cands {
		if counts[a.ID] == 0 {
			t.Errorf("expected %s to be picked at least once, counts %v", a.ID, counts)
		}
	}
}

func TestSample_Distribution(t *testing.T) {
	cands := []*types.ActionDef{weighted("x", 1), weighted("y", 3)}
	r := rng.New(12345)
	counts := map[string]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		got := Sample(r, cands, []float64{1, 3}, 1)
		counts[got[0].ID]++
	}

	if counts["y"] < 7000 || counts["y"] > 8000 {
		t.Errorf("expected ~7500 picks for weight 3, got %d", counts["y"])
	}
}

func TestSelect_PoolScenario(t *testing.T) {
	x := &types.ActionDef{ID: "X", Tags: []string{"Pool.A"}, BaseWeight: 1, MaxStacks: 1}
	y := &types.ActionDef{ID: "Y", Tags: []string{"Pool.A"}, BaseWeight: 3, MaxStacks: 0}
	cands := []*types.ActionDef{x, y}

	one := Select(cands, &types.Query{Count: 1, Seed: 42})
	if len(one) != 1 {
		t.Fatalf("expected 1 result, got %d", len(one))
	}
	again := Select(cands, &types.Query{Count: 1, Seed: 42})
	if one[0] != again[0] {
		t.Errorf("expected same pick for seed 42, got %s then %s", one[0].ID, again[0].ID)
	}

	both := Select(cands, &types.Query{Count: 2, Seed: 42})
	if len(both) != 2 || both[0] == both[1] {
		t.Errorf("expected both X and Y, got %v", both)
	}
}
