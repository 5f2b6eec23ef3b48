package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerValueHelpers(L)
	registerFilterHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Content { title = "...", ... }
	L.SetGlobal("Content", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.meta = tbl
		return 0
	}))

	// Action "id" { ... }: Action("id") returns a function that takes a table.
	L.SetGlobal("Action", curried(L, func(id string, tbl *lua.LTable) {
		coll.actions = append(coll.actions, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	}))

	// Preset "id" { ... }
	L.SetGlobal("Preset", curried(L, func(id string, tbl *lua.LTable) {
		coll.presets = append(coll.presets, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	}))

	// Slot "Slot.Tag" { capacity = n }
	L.SetGlobal("Slot", curried(L, func(id string, tbl *lua.LTable) {
		coll.slots = append(coll.slots, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
	}))
}

// curried builds a constructor of the form Name "id" { ... }.
func curried(L *lua.LState, collect func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			collect(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerValueHelpers(L *lua.LState) {
	// Add("Stat.Damage", 10), Multiply(...), Set(...), Max(...), Min(...)
	for name, mode := range map[string]string{
		"Add":      "add",
		"Multiply": "multiply",
		"Set":      "set",
		"Max":      "max",
		"Min":      "min",
	} {
		mode := mode // per-iteration copy (go directive < 1.22)
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			key := L.CheckString(1)
			value := L.CheckNumber(2)
			tbl := L.NewTable()
			tbl.RawSetString("key", lua.LString(key))
			tbl.RawSetString("value", value)
			tbl.RawSetString("mode", lua.LString(mode))
			L.Push(tbl)
			return 1
		}))
	}
}

func registerFilterHelpers(L *lua.LState) {
	// IsAcquired(), NotAcquired(), NotMaxStacked()
	for name, kind := range map[string]string{
		"IsAcquired":    "is_acquired",
		"NotAcquired":   "not_acquired",
		"NotMaxStacked": "not_max_stacked",
	} {
		kind := kind // per-iteration copy (go directive < 1.22)
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(kind))
			L.Push(tbl)
			return 1
		}))
	}

	// HasAllTags { "A", "B" }, HasAnyTags { ... }, ExcludeNewWithTag { ... }
	for name, kind := range map[string]string{
		"HasAllTags":        "has_all_tags",
		"HasAnyTags":        "has_any_tags",
		"ExcludeNewWithTag": "exclude_new_with_tag",
	} {
		kind := kind // per-iteration copy (go directive < 1.22)
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tags := L.CheckTable(1)
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(kind))
			tbl.RawSetString("tags", tags)
			L.Push(tbl)
			return 1
		}))
	}

	// RunValue("Stat.Level", "ge", 5), ActionValue("Damage", "gt", 10)
	for name, useRun := range map[string]bool{
		"RunValue":    true,
		"ActionValue": false,
	} {
		useRun := useRun // per-iteration copy (go directive < 1.22)
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			key := L.CheckString(1)
			op := L.CheckString(2)
			value := L.CheckNumber(3)
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString("value_compare"))
			tbl.RawSetString("key", lua.LString(key))
			tbl.RawSetString("op", lua.LString(op))
			tbl.RawSetString("value", value)
			tbl.RawSetString("run", lua.LBool(useRun))
			L.Push(tbl)
			return 1
		}))
	}

	// And { f1, f2 }, Or { f1, f2 }
	for name, kind := range map[string]string{
		"And": "and",
		"Or":  "or",
	} {
		kind := kind // per-iteration copy (go directive < 1.22)
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			children := L.CheckTable(1)
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(kind))
			tbl.RawSetString("filters", children)
			L.Push(tbl)
			return 1
		}))
	}

	// Not(filter)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))
}
