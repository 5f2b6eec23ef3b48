package save

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"

	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New()
	c.RegisterAll([]*types.ActionDef{
		{ID: "fireball", Tags: []string{"Element.Fire"}, MaxStacks: 3},
		{ID: "frost", Tags: []string{"Element.Ice"}, MaxStacks: 1},
		{ID: "boots", MaxStacks: 0},
	})
	return c
}

func testState() *types.RunState {
	s := state.New()
	s.Active = true
	s.RunID = "run-1"
	s.Seed = 42
	s.Acquired["fireball"] = types.AcquiredInfo{Stacks: 2}
	s.Acquired["frost"] = types.AcquiredInfo{Stacks: 1}
	s.Slots["Slot.Active"] = []string{"fireball"}
	s.ActiveTags["Unlock.A"] = true
	s.ActiveTags["Synergy.Burn"] = true
	s.Numeric["Damage"] = 12.5
	s.Numeric["Level"] = 3
	return s
}

func TestSnapshot(t *testing.T) {
	sd := Snapshot(testState(), 90.5)

	want := &types.SaveData{
		Version:    Version,
		RunID:      "run-1",
		Acquired:   map[string]int{"fireball": 2, "frost": 1},
		Slots:      map[string][]string{"Slot.Active": {"fireball"}},
		ActiveTags: []string{"Synergy.Burn", "Unlock.A"},
		Numeric:    map[string]float64{"Damage": 12.5, "Level": 3},
		Seed:       42,
		PlayTime:   90.5,
	}
	if diff := cmp.Diff(want, sd); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	s := testState()
	sd := Snapshot(s, 0)

	s.Slots["Slot.Active"][0] = "frost"
	s.Numeric["Damage"] = 0

	if sd.Slots["Slot.Active"][0] != "fireball" || sd.Numeric["Damage"] != 12.5 {
		t.Errorf("expected snapshot unaffected by later mutation, got %+v", sd)
	}
}

func TestRoundTrip(t *testing.T) {
	s := testState()
	c := testCatalog()

	data, err := Marshal(Snapshot(s, 10))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	sd, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	restored := state.New()
	Restore(restored, sd, c)

	if diff := cmp.Diff(s, restored); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore_DropsUnresolvedAndClamps(t *testing.T) {
	sd := &types.SaveData{
		Acquired: map[string]int{"fireball": 9, "frost": 0, "gone": 2, "boots": 50},
		Slots:    map[string][]string{"Slot.A": {"gone", "boots"}, "Slot.B": {"gone"}},
	}

	s := state.New()
	Restore(s, sd, testCatalog())

	if !s.Active {
		t.Error("expected restored run to be active")
	}
	want := map[string]types.AcquiredInfo{
		"fireball": {Stacks: 3},
		"boots":    {Stacks: 50},
	}
	if diff := cmp.Diff(want, s.Acquired); diff != "" {
		t.Errorf("acquired mismatch (-want +got):\n%s", diff)
	}
	if got := s.Slots["Slot.A"]; len(got) != 1 || got[0] != "boots" {
		t.Errorf("expected Slot.A [boots], got %v", got)
	}
	if _, ok := s.Slots["Slot.B"]; ok {
		t.Error("expected fully unresolved slot to be dropped")
	}
}

func TestRestore_ResetsPriorState(t *testing.T) {
	s := testState()
	Restore(s, &types.SaveData{}, testCatalog())

	if len(s.Acquired) != 0 || len(s.ActiveTags) != 0 || len(s.Numeric) != 0 {
		t.Errorf("expected prior state cleared, got %+v", s)
	}
}

func TestUnmarshal_NormalizesNil(t *testing.T) {
	sd, err := Unmarshal([]byte(`{"version": 1}`))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if sd.Acquired == nil || sd.Slots == nil || sd.ActiveTags == nil || sd.Numeric == nil {
		t.Errorf("expected non-nil collections, got %+v", sd)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); err == nil || !strings.Contains(err.Error(), "decode save") {
		t.Errorf("expected decode error, got %v", err)
	}
	if _, err := Unmarshal([]byte(`{"version": 99}`)); err == nil || !strings.Contains(err.Error(), "unsupported version") {
		t.Errorf("expected version error, got %v", err)
	}
}

func TestMarshal_Golden(t *testing.T) {
	data, err := Marshal(Snapshot(testState(), 90.5))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "save_format", data)
}
