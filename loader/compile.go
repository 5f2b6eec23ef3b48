// Package loader loads Lua content packs into Go structs at load time.
// The Lua VM is discarded after loading; nothing runs Lua during a run.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/roguecore/engine/filter"
	"github.com/nathoo/roguecore/types"
)

// rawDef holds a constructor table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList reads the array part of a table field as strings.
// Non-string elements are skipped.
func getStringList(tbl *lua.LTable, key string) []string {
	return toStringList(getTable(tbl, key))
}

func toStringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into content. Structural problems
// (duplicate IDs, malformed filters) are recorded on ve; compilation continues
// so every problem is reported at once.
func compile(coll *collector, ve *ValidationError) *types.Content {
	content := &types.Content{
		Presets:      map[string]*types.PoolPreset{},
		SlotCapacity: map[string]int{},
	}

	if coll.meta != nil {
		content.Meta = compileMeta(coll.meta)
	}

	seen := map[string]bool{}
	for _, raw := range coll.actions {
		if seen[raw.id] {
			ve.addError("duplicate action ID %q", raw.id)
			continue
		}
		seen[raw.id] = true
		content.Actions = append(content.Actions, compileAction(raw, ve))
	}

	for _, raw := range coll.presets {
		if _, ok := content.Presets[raw.id]; ok {
			ve.addError("duplicate preset ID %q", raw.id)
			continue
		}
		content.Presets[raw.id] = compilePreset(raw, ve)
	}

	for _, raw := range coll.slots {
		if _, ok := content.SlotCapacity[raw.id]; ok {
			ve.addError("duplicate slot %q", raw.id)
			continue
		}
		content.SlotCapacity[raw.id] = getInt(raw.table, "capacity", 1)
	}

	return content
}

func compileMeta(tbl *lua.LTable) types.ContentMeta {
	return types.ContentMeta{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileAction(raw rawDef, ve *ValidationError) *types.ActionDef {
	tbl := raw.table
	return &types.ActionDef{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Description:   getString(tbl, "description"),
		Icon:          getString(tbl, "icon"),
		Tags:          getStringList(tbl, "tags"),
		Values:        compileValues(raw.id, getTable(tbl, "values"), ve),
		AutoApply:     getBool(tbl, "auto_apply", true),
		AutoGrantTags: getBool(tbl, "grant_tags", false),
		BaseWeight:    getNumber(tbl, "weight", 1),
		MaxStacks:     getInt(tbl, "max_stacks", 1),
		RequiredTags:  getStringList(tbl, "requires"),
		BlockedByTags: getStringList(tbl, "blocked_by"),
	}
}

// compileValues accepts helper entries (Add("Damage", 5)) in the array part
// and plain key = number pairs in the hash part, which default to add.
// Hash entries are sorted by key so their order is stable.
func compileValues(actionID string, tbl *lua.LTable, ve *ValidationError) []types.ValueEntry {
	if tbl == nil {
		return nil
	}

	var values []types.ValueEntry
	for i := 1; i <= tbl.MaxN(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			ve.addError("action %q value %d is not a table", actionID, i)
			continue
		}
		mode := getString(entry, "mode")
		if mode == "" {
			mode = string(types.ApplyAdd)
		}
		values = append(values, types.ValueEntry{
			Key:   getString(entry, "key"),
			Value: getNumber(entry, "value", 0),
			Mode:  types.ApplyMode(mode),
		})
	}

	var named []types.ValueEntry
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			ve.addError("action %q value %q is not a number", actionID, string(key))
			return
		}
		named = append(named, types.ValueEntry{Key: string(key), Value: float64(n), Mode: types.ApplyAdd})
	})
	sort.Slice(named, func(i, j int) bool { return named[i].Key < named[j].Key })

	return append(values, named...)
}

func compilePreset(raw rawDef, ve *ValidationError) *types.PoolPreset {
	tbl := raw.table
	mode := getString(tbl, "mode")
	if mode == "" {
		mode = string(types.ModeNewOrAcquired)
	}

	preset := &types.PoolPreset{
		ID:                raw.id,
		PoolTags:          getStringList(tbl, "pool"),
		RequireTags:       getStringList(tbl, "require"),
		ExcludeTags:       getStringList(tbl, "exclude"),
		DefaultMode:       types.QueryMode(mode),
		ExcludeMaxStacked: getBool(tbl, "exclude_max_stacked", true),
	}

	if ft := getTable(tbl, "filter"); ft != nil {
		f, err := compileFilter(ft)
		if err != nil {
			ve.addError("preset %q filter: %v", raw.id, err)
		} else {
			preset.Filter = f
		}
	}
	return preset
}

// compileFilter converts a filter helper table into a filter tree.
func compileFilter(tbl *lua.LTable) (types.Filter, error) {
	kind := getString(tbl, "type")

	switch kind {
	case "is_acquired":
		return filter.IsAcquired{}, nil
	case "not_acquired":
		return filter.NotAcquired{}, nil
	case "not_max_stacked":
		return filter.NotMaxStacked{}, nil
	case "has_all_tags", "has_any_tags":
		return filter.HasTags{
			Tags:       toStringList(getTable(tbl, "tags")),
			RequireAll: kind == "has_all_tags",
		}, nil
	case "exclude_new_with_tag":
		return filter.ExcludeNewWithTag{Tags: toStringList(getTable(tbl, "tags"))}, nil
	case "value_compare":
		key := getString(tbl, "key")
		if key == "" {
			return nil, fmt.Errorf("value comparison needs a key")
		}
		op := types.CompareOp(getString(tbl, "op"))
		if !validOps[op] {
			return nil, fmt.Errorf("unknown comparison operator %q", op)
		}
		return filter.ValueCompare{
			Key:         key,
			Op:          op,
			Value:       getNumber(tbl, "value", 0),
			UseRunState: getBool(tbl, "run", false),
		}, nil
	case "and", "or":
		children, err := compileFilters(getTable(tbl, "filters"))
		if err != nil {
			return nil, err
		}
		if kind == "and" {
			return filter.And{Filters: children}, nil
		}
		return filter.Or{Filters: children}, nil
	case "not":
		innerTbl := getTable(tbl, "inner")
		if innerTbl == nil {
			return filter.Not{}, nil
		}
		inner, err := compileFilter(innerTbl)
		if err != nil {
			return nil, err
		}
		return filter.Not{Filter: inner}, nil
	}
	return nil, fmt.Errorf("unknown filter type %q", kind)
}

func compileFilters(tbl *lua.LTable) ([]types.Filter, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.Filter
	for i := 1; i <= tbl.MaxN(); i++ {
		child, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("filter %d is not a table", i)
		}
		f, err := compileFilter(child)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// sortedLuaFiles returns .lua files with content.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var contentFile string
	var others []string
	for _, f := range files {
		if f == "content.lua" {
			contentFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if contentFile != "" {
		return append([]string{contentFile}, others...)
	}
	return others
}
