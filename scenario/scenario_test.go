package scenario

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/roguecore/engine"
	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/types"
)

func testContent() *types.Content {
	return &types.Content{
		Meta: types.ContentMeta{Title: "Scenario Test"},
		Actions: []*types.ActionDef{
			{
				ID:         "fireball",
				Tags:       []string{"Type.Active", "Element.Fire"},
				Values:     []types.ValueEntry{{Key: "Damage", Value: 10, Mode: types.ApplyAdd}},
				AutoApply:  true,
				BaseWeight: 1,
				MaxStacks:  3,
			},
			{
				ID:            "ember",
				Tags:          []string{"Type.Passive", "Synergy.Burn"},
				Values:        []types.ValueEntry{{Key: "Crit", Value: 25, Mode: types.ApplySet}},
				AutoApply:     true,
				AutoGrantTags: true,
				BaseWeight:    2,
				MaxStacks:     1,
			},
			{
				ID:           "inferno",
				Tags:         []string{"Type.Active", "Element.Fire"},
				BaseWeight:   5,
				MaxStacks:    1,
				RequiredTags: []string{"Synergy.Burn"},
			},
			{
				ID:         "boots",
				Tags:       []string{"Type.Passive"},
				Values:     []types.ValueEntry{{Key: "Speed", Value: 1.1, Mode: types.ApplyMultiply}},
				AutoApply:  true,
				BaseWeight: 1,
			},
		},
		Presets: map[string]*types.PoolPreset{
			"level_up": {
				ID:                "level_up",
				PoolTags:          []string{"Type.Active", "Type.Passive"},
				DefaultMode:       types.ModeNewOrAcquired,
				ExcludeMaxStacked: true,
			},
		},
		SlotCapacity: map[string]int{"Slot.Active": 1},
	}
}

func newTestEngine(content *types.Content) *engine.Engine {
	cat := catalog.New()
	cat.RegisterAll(content.Actions)
	return engine.New(cat, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestRun_BasicScript(t *testing.T) {
	sc, err := LoadFile("testdata/basic.yaml")
	require.NoError(t, err)

	content := testContent()
	rep, err := Run(newTestEngine(content), content, sc)
	require.NoError(t, err)

	assert.True(t, rep.Pass, "errors: %v", rep.Errors)
	assert.Empty(t, rep.Errors)
	assert.Equal(t, len(sc.Steps), rep.Steps)
	assert.Len(t, rep.Queries, 2)
	assert.Contains(t, rep.Events, types.EventRunStarted)
	assert.Contains(t, rep.Events, types.EventRunEnded)
	assert.Contains(t, rep.Events, types.EventTagRemoved)
}

func TestRun_FailedExpectationsAreReported(t *testing.T) {
	sc, err := Parse([]byte(`
name: failing
steps:
  - do: start
  - do: acquire
    action: fireball
    expect_stacks: {fireball: 2}
  - do: acquire
    action: nothing
  - do: acquire
    action: fireball
    expect_error: Run not active
  - do: check
    expect_value: {Damage: 99}
    expect_tags: [Missing]
`))
	require.NoError(t, err)

	content := testContent()
	rep, err := Run(newTestEngine(content), content, sc)
	require.NoError(t, err)

	assert.False(t, rep.Pass)
	require.Len(t, rep.Errors, 5)
	assert.Contains(t, rep.Errors[0], "step 2: stacks of fireball: expected 2, got 1")
	assert.Contains(t, rep.Errors[1], "step 3: acquire: Invalid action")
	assert.Contains(t, rep.Errors[2], `step 4: acquire: expected error "Run not active", got success`)
	assert.Contains(t, rep.Errors[3], "value Damage: expected 99, got 20")
	assert.Contains(t, rep.Errors[4], "tag Missing: expected present")
}

func TestRun_UnknownPresetIsAnError(t *testing.T) {
	sc, err := Parse([]byte(`
name: bad preset
steps:
  - do: start
  - do: query
    preset: nope
`))
	require.NoError(t, err)

	content := testContent()
	rep, err := Run(newTestEngine(content), content, sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `step 2: unknown preset "nope"`)
	assert.Equal(t, 2, rep.Steps)
}

func TestRun_PickAcquiresResult(t *testing.T) {
	sc, err := Parse([]byte(`
name: pick
steps:
  - do: start
    seed: 1
  - do: query
    pool: [Type.Active]
    count: 1
    seed: 7
    pick: 1
    expect_ids: [fireball]
    expect_stacks: {fireball: 1}
  - do: query
    pool: [Type.Active]
    mode: only_new
    pick: 1
    expect_count: 0
    expect_error: out of 0 results
`))
	require.NoError(t, err)

	content := testContent()
	rep, err := Run(newTestEngine(content), content, sc)
	require.NoError(t, err)
	assert.True(t, rep.Pass, "errors: %v", rep.Errors)
}

func TestRun_SeededQueriesRepeat(t *testing.T) {
	sc, err := Parse([]byte(`
name: seeded
steps:
  - do: start
  - do: query
    pool: [Type.Active, Type.Passive]
    count: 2
    seed: 1234
`))
	require.NoError(t, err)

	content := testContent()
	first, err := Run(newTestEngine(content), content, sc)
	require.NoError(t, err)
	second, err := Run(newTestEngine(content), content, sc)
	require.NoError(t, err)

	require.Len(t, first.Queries, 1)
	assert.Len(t, first.Queries[0].IDs, 2)
	assert.Equal(t, first.Queries, second.Queries)
}

func TestRun_UnsubscribesFromBus(t *testing.T) {
	sc, err := Parse([]byte("name: once\nsteps:\n  - do: start\n"))
	require.NoError(t, err)

	content := testContent()
	eng := newTestEngine(content)
	before := eng.Bus.Len()

	_, err = Run(eng, content, sc)
	require.NoError(t, err)
	assert.Equal(t, before, eng.Bus.Len())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"missing name", "steps:\n  - do: start\n", "name is required"},
		{"no steps", "name: empty\n", "steps list is required"},
		{"unknown op", "name: x\nsteps:\n  - do: dance\n", `unknown operation "dance"`},
		{"unknown field", "name: x\nsteps:\n  - do: start\n    sed: 4\n", "field sed not found"},
		{"acquire without action", "name: x\nsteps:\n  - do: acquire\n", "acquire needs an action"},
		{"equip without slot", "name: x\nsteps:\n  - do: equip\n    action: a\n", "equip needs an action and a slot"},
		{"tag without tag", "name: x\nsteps:\n  - do: untag\n", "untag needs a tag"},
		{"set without key", "name: x\nsteps:\n  - do: set\n", "set needs a key"},
		{"negative pick", "name: x\nsteps:\n  - do: query\n    pick: -1\n", "pick must be positive"},
		{"bad yaml", "name: [unclosed\n", "parse scenario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read scenario")
}
