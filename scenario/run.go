package scenario

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/nathoo/roguecore/engine"
	"github.com/nathoo/roguecore/engine/filter"
	"github.com/nathoo/roguecore/engine/query"
	"github.com/nathoo/roguecore/engine/save"
	"github.com/nathoo/roguecore/types"
)

// Report is the outcome of a scenario run.
type Report struct {
	Name   string
	Pass   bool
	Steps  int
	Errors []string
	// Queries holds the result IDs of every query step, in step order.
	Queries []QueryResult
	// Events lists the type of every event published during the run.
	Events []string
}

// QueryResult records one query step.
type QueryResult struct {
	Step int
	IDs  []string
}

func (r *Report) fail(step int, format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("step %d: %s", step, fmt.Sprintf(format, args...)))
	r.Pass = false
}

// Run executes sc against eng. Failed expectations are collected on the
// report; the error is reserved for scripts that reference content that does
// not exist.
func Run(eng *engine.Engine, content *types.Content, sc *Scenario) (*Report, error) {
	if content == nil {
		content = &types.Content{}
	}
	rep := &Report{Name: sc.Name, Pass: true}

	h := eng.Bus.Subscribe("", func(ev types.Event) {
		rep.Events = append(rep.Events, ev.Type)
	})
	defer eng.Bus.Unsubscribe(h)

	for i, st := range sc.Steps {
		n := i + 1
		rep.Steps = n

		opErr, err := runStep(eng, content, st, n, rep)
		if err != nil {
			return rep, fmt.Errorf("step %d: %w", n, err)
		}
		switch {
		case st.ExpectError != "" && opErr == nil:
			rep.fail(n, "%s: expected error %q, got success", st.Do, st.ExpectError)
		case st.ExpectError != "" && !strings.Contains(opErr.Error(), st.ExpectError):
			rep.fail(n, "%s: expected error %q, got %q", st.Do, st.ExpectError, opErr.Error())
		case st.ExpectError == "" && opErr != nil:
			rep.fail(n, "%s: %v", st.Do, opErr)
		}

		checkState(eng, st, n, rep)
	}
	return rep, nil
}

// runStep performs one operation. opErr is an expected kind of failure
// (precondition rejected); err means the script itself is broken.
func runStep(eng *engine.Engine, content *types.Content, st Step, n int, rep *Report) (opErr, err error) {
	switch st.Do {
	case OpStart:
		eng.StartRun(st.Seed)
	case OpEnd:
		eng.EndRun(st.Won)
	case OpAcquire:
		return eng.TryAcquire(lookup(eng, st.Action), stacksOrOne(st.Stacks)), nil
	case OpRemove:
		if !eng.RemoveAction(lookup(eng, st.Action), stacksOrOne(st.Stacks), st.All) {
			return errors.New("remove failed"), nil
		}
	case OpEquip:
		a := lookup(eng, st.Action)
		if c, ok := content.SlotCapacity[st.Slot]; ok && eng.IsSlotFull(st.Slot, c) {
			return fmt.Errorf("slot %s is full", st.Slot), nil
		}
		if !eng.Equip(a, st.Slot) {
			return errors.New("equip failed"), nil
		}
	case OpUnequip:
		eng.Unequip(lookup(eng, st.Action), st.Slot)
	case OpTag:
		eng.AddTag(st.Tag)
	case OpUntag:
		eng.RemoveTag(st.Tag)
	case OpSet:
		eng.SetValue(st.Key, st.Value)
	case OpAdd:
		eng.AddValue(st.Key, st.Value)
	case OpQuery:
		return runQuery(eng, content, st, n, rep)
	case OpCheck:
	case OpSnapshotRoundtrip:
		return snapshotRoundtrip(eng), nil
	default:
		return nil, fmt.Errorf("unknown operation %q", st.Do)
	}
	return nil, nil
}

func runQuery(eng *engine.Engine, content *types.Content, st Step, n int, rep *Report) (error, error) {
	q := query.New()
	if st.Preset != "" {
		p, ok := content.Presets[st.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", st.Preset)
		}
		q.Preset = p
	}
	q.PoolTags = st.Pool
	q.RequireTags = st.Require
	q.ExcludeTags = st.Exclude
	q.Seed = st.Seed
	q.WeightModifiers = st.Weights
	q.ExcludeMaxStacked = !st.IncludeMaxStacked
	if st.Count != 0 {
		q.Count = st.Count
	}
	if st.Mode != "" {
		q.Mode = types.QueryMode(st.Mode)
	}

	results := eng.ExecuteQuery(q)
	ids := make([]string, len(results))
	for i, a := range results {
		ids[i] = a.ID
	}
	rep.Queries = append(rep.Queries, QueryResult{Step: n, IDs: ids})

	if st.ExpectCount != nil && len(ids) != *st.ExpectCount {
		rep.fail(n, "query: expected %d results, got %d %v", *st.ExpectCount, len(ids), ids)
	}
	if st.ExpectIDs != nil && !slices.Equal(ids, st.ExpectIDs) {
		rep.fail(n, "query: expected %v, got %v", st.ExpectIDs, ids)
	}
	if st.ExpectAnyOf != nil {
		for _, id := range ids {
			if !slices.Contains(st.ExpectAnyOf, id) {
				rep.fail(n, "query: result %q not in %v", id, st.ExpectAnyOf)
			}
		}
	}

	if st.Pick > 0 {
		if st.Pick > len(results) {
			return fmt.Errorf("pick %d out of %d results", st.Pick, len(results)), nil
		}
		return eng.TryAcquire(results[st.Pick-1], 1), nil
	}
	return nil, nil
}

// snapshotRoundtrip encodes the run, restores it from the bytes, and reports
// any difference between the two snapshots.
func snapshotRoundtrip(eng *engine.Engine) error {
	before := eng.CreateSnapshot()
	data, err := save.Marshal(before)
	if err != nil {
		return err
	}
	sd, err := save.Unmarshal(data)
	if err != nil {
		return err
	}
	eng.RestoreFromSnapshot(sd)

	after := eng.CreateSnapshot()
	after.PlayTime = before.PlayTime
	if diff := cmp.Diff(before, after); diff != "" {
		return fmt.Errorf("snapshot changed after restore (-before +after):\n%s", diff)
	}
	return nil
}

func checkState(eng *engine.Engine, st Step, n int, rep *Report) {
	for id, want := range st.ExpectStacks {
		if got := eng.Stacks(lookup(eng, id)); got != want {
			rep.fail(n, "stacks of %s: expected %d, got %d", id, want, got)
		}
	}
	for key, want := range st.ExpectValue {
		if got := eng.Value(key, 0); !filter.NearlyEqual(got, want) {
			rep.fail(n, "value %s: expected %g, got %g", key, want, got)
		}
	}
	for _, tag := range st.ExpectTags {
		if absent, ok := strings.CutPrefix(tag, "!"); ok {
			if eng.HasTag(absent) {
				rep.fail(n, "tag %s: expected absent", absent)
			}
			continue
		}
		if !eng.HasTag(tag) {
			rep.fail(n, "tag %s: expected present", tag)
		}
	}
	for slot, want := range st.ExpectSlot {
		var got []string
		for _, a := range eng.SlotContents(slot) {
			got = append(got, a.ID)
		}
		if !slices.Equal(got, want) {
			rep.fail(n, "slot %s: expected %v, got %v", slot, want, got)
		}
	}
}

// lookup resolves id, returning nil for unknown actions so the engine's own
// invalid-action handling applies.
func lookup(eng *engine.Engine, id string) *types.ActionDef {
	a, _ := eng.Resolve(id)
	return a
}

func stacksOrOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}
