// Package types defines the shared data structures for the roguecore engine.
// This package contains only type definitions: no logic, no methods.
package types

// ApplyMode controls how a value entry is folded into run-state numeric data.
type ApplyMode string

const (
	ApplyAdd      ApplyMode = "add"
	ApplyMultiply ApplyMode = "multiply"
	ApplySet      ApplyMode = "set"
	ApplyMax      ApplyMode = "max"
	ApplyMin      ApplyMode = "min"
)

// QueryMode is the eligibility policy for acquired / unacquired / maxed actions.
// The empty mode behaves like ModeAll.
type QueryMode string

const (
	ModeAll           QueryMode = "all"
	ModeOnlyNew       QueryMode = "only_new"
	ModeOnlyAcquired  QueryMode = "only_acquired"
	ModeNewOrAcquired QueryMode = "new_or_acquired"
	ModeCustom        QueryMode = "custom"
)

// CompareOp is the operator used by value comparison filters.
type CompareOp string

const (
	OpEqual          CompareOp = "eq"
	OpNotEqual       CompareOp = "ne"
	OpGreater        CompareOp = "gt"
	OpGreaterOrEqual CompareOp = "ge"
	OpLess           CompareOp = "lt"
	OpLessOrEqual    CompareOp = "le"
)

// ValueEntry is a single numeric payload carried by an action.
type ValueEntry struct {
	Key   string
	Value float64
	Mode  ApplyMode
}

// ActionDef is an immutable catalog entry: an ability, passive or item that
// can be acquired during a run. ID is the stable reference used as identity
// everywhere (state maps, slots, save data).
type ActionDef struct {
	ID          string
	Name        string
	Description string
	Icon        string

	Tags   []string     // classification tags (Type.*, Pool.*, Rarity.*)
	Values []ValueEntry // ordered numeric payload

	AutoApply     bool // fold Values into run-state numeric data on acquire
	AutoGrantTags bool // add Tags to run-state active tags on acquire

	BaseWeight float64
	MaxStacks  int // 0 = unlimited

	RequiredTags  []string // all must be active for the action to be offered
	BlockedByTags []string // any active tag blocks the action
}

// AcquiredInfo is the per-action progress within a run.
type AcquiredInfo struct {
	Stacks     int
	AcquiredAt float64 // seconds since run start at first acquisition
}

// RunState is the complete mutable progress of one run.
type RunState struct {
	Active     bool
	RunID      string
	Seed       int64
	Acquired   map[string]AcquiredInfo // action ID → info
	Slots      map[string][]string     // slot tag → ordered action IDs
	ActiveTags map[string]bool         // run-level flags/unlocks
	Numeric    map[string]float64      // stat key → value
}

// Filter is a predicate over an action and the run state.
// Implementations live in engine/filter; callers may supply their own.
type Filter interface {
	Passes(a *ActionDef, s *RunState) bool
}

// PoolPreset bundles reusable query defaults (level-up pool, shop pool, ...).
type PoolPreset struct {
	ID                string
	PoolTags          []string
	RequireTags       []string
	ExcludeTags       []string
	DefaultMode       QueryMode
	ExcludeMaxStacked bool
	Filter            Filter // additional filter, optional
}

// Query describes one selection request.
type Query struct {
	Preset            *PoolPreset // optional
	PoolTags          []string
	RequireTags       []string
	ExcludeTags       []string
	Count             int
	Seed              int64 // 0 = non-deterministic
	ExcludeMaxStacked bool
	Mode              QueryMode
	WeightModifiers   map[string]float64 // tag → weight multiplier
	Filter            Filter             // custom filter, optional
}

// Event is broadcast after the state mutation it describes has committed.
type Event struct {
	Type string
	Data map[string]any
}

// Event types.
const (
	EventRunStarted     = "run_started"
	EventRunEnded       = "run_ended"
	EventActionAcquired = "action_acquired"
	EventActionRemoved  = "action_removed"
	EventStackChanged   = "stack_changed"
	EventValueChanged   = "value_changed"
	EventQueryComplete  = "query_complete"
	EventTagAdded       = "tag_added"
	EventTagRemoved     = "tag_removed"
)

// ContentMeta holds content-pack metadata from Lua.
type ContentMeta struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// Content is everything a content pack defines.
type Content struct {
	Meta         ContentMeta
	Actions      []*ActionDef           // definition order
	Presets      map[string]*PoolPreset // preset ID → preset
	SlotCapacity map[string]int         // slot tag → capacity
}

// SaveData is the logical save shape of a run. Actions are stored by
// reference (ActionDef.ID), never by instance.
type SaveData struct {
	Version    int                 `json:"version"`
	RunID      string              `json:"run_id,omitempty"`
	Acquired   map[string]int      `json:"acquired"`
	Slots      map[string][]string `json:"slots"`
	ActiveTags []string            `json:"active_tags"`
	Numeric    map[string]float64  `json:"numeric"`
	Seed       int64               `json:"seed"`
	PlayTime   float64             `json:"play_time"`
}
