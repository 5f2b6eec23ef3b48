// Package save converts run state to and from the logical save format.
// Actions are stored by reference (their ID) and re-resolved on restore.
// Writing the bytes anywhere is the caller's job.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// Version is the save format version written by Snapshot.
const Version = 1

// Resolver maps a stored action reference back to its definition.
type Resolver interface {
	Resolve(id string) (*types.ActionDef, bool)
}

// Snapshot captures the run state. Tags are sorted; maps and slices are
// copies, so later mutation of s does not leak into the snapshot.
func Snapshot(s *types.RunState, playTime float64) *types.SaveData {
	sd := &types.SaveData{
		Version:    Version,
		RunID:      s.RunID,
		Acquired:   make(map[string]int, len(s.Acquired)),
		Slots:      make(map[string][]string, len(s.Slots)),
		ActiveTags: state.SortedTags(s),
		Numeric:    make(map[string]float64, len(s.Numeric)),
		Seed:       s.Seed,
		PlayTime:   playTime,
	}
	for id, info := range s.Acquired {
		if info.Stacks > 0 {
			sd.Acquired[id] = info.Stacks
		}
	}
	for slot := range s.Slots {
		if contents := state.SlotContents(s, slot); len(contents) > 0 {
			sd.Slots[slot] = contents
		}
	}
	for k, v := range s.Numeric {
		sd.Numeric[k] = v
	}
	return sd
}

// Restore resets s and rebuilds it from sd as an active run. References the
// resolver cannot find are dropped, as are non-positive stack counts. Stacks
// above an action's cap are clamped to it.
func Restore(s *types.RunState, sd *types.SaveData, resolver Resolver) {
	state.Reset(s)
	s.Active = true
	if sd == nil {
		return
	}
	s.RunID = sd.RunID
	s.Seed = sd.Seed

	for id, stacks := range sd.Acquired {
		a, ok := resolver.Resolve(id)
		if !ok || a == nil || stacks <= 0 {
			continue
		}
		if a.MaxStacks > 0 && stacks > a.MaxStacks {
			stacks = a.MaxStacks
		}
		s.Acquired[a.ID] = types.AcquiredInfo{Stacks: stacks}
	}

	for slot, ids := range sd.Slots {
		var resolved []string
		for _, id := range ids {
			if a, ok := resolver.Resolve(id); ok && a != nil {
				resolved = append(resolved, a.ID)
			}
		}
		if len(resolved) > 0 {
			s.Slots[slot] = resolved
		}
	}

	for _, tag := range sd.ActiveTags {
		if tag != "" {
			s.ActiveTags[tag] = true
		}
	}
	for k, v := range sd.Numeric {
		s.Numeric[k] = v
	}
}

// Marshal encodes save data as indented JSON with a trailing newline.
func Marshal(sd *types.SaveData) ([]byte, error) {
	data, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes save data. Collections are never nil afterwards.
func Unmarshal(data []byte) (*types.SaveData, error) {
	var sd types.SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sd.Version > Version {
		return nil, fmt.Errorf("decode save: unsupported version %d", sd.Version)
	}
	if sd.Acquired == nil {
		sd.Acquired = map[string]int{}
	}
	if sd.Slots == nil {
		sd.Slots = map[string][]string{}
	}
	if sd.ActiveTags == nil {
		sd.ActiveTags = []string{}
	}
	if sd.Numeric == nil {
		sd.Numeric = map[string]float64{}
	}
	return &sd, nil
}
