// Package scenario runs YAML scripts against an engine. A script is a list of
// steps, each an operation plus optional expectations checked after it runs.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a parsed script.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one operation. Fields not used by the operation are ignored.
type Step struct {
	// Do names the operation, e.g. "acquire" or "query".
	Do string `yaml:"do"`

	Action string  `yaml:"action,omitempty"`
	Stacks int     `yaml:"stacks,omitempty"`
	All    bool    `yaml:"all,omitempty"`
	Slot   string  `yaml:"slot,omitempty"`
	Tag    string  `yaml:"tag,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
	Seed   int64   `yaml:"seed,omitempty"`
	Won    bool    `yaml:"won,omitempty"`

	// Query fields.
	Preset            string             `yaml:"preset,omitempty"`
	Pool              []string           `yaml:"pool,omitempty"`
	Require           []string           `yaml:"require,omitempty"`
	Exclude           []string           `yaml:"exclude,omitempty"`
	Mode              string             `yaml:"mode,omitempty"`
	Count             int                `yaml:"count,omitempty"`
	IncludeMaxStacked bool               `yaml:"include_max_stacked,omitempty"`
	Weights           map[string]float64 `yaml:"weights,omitempty"`
	// Pick acquires the n-th result (1-based) of the query.
	Pick int `yaml:"pick,omitempty"`

	// Expectations.
	ExpectError  string              `yaml:"expect_error,omitempty"`
	ExpectCount  *int                `yaml:"expect_count,omitempty"`
	ExpectIDs    []string            `yaml:"expect_ids,omitempty"`
	ExpectAnyOf  []string            `yaml:"expect_any_of,omitempty"`
	ExpectStacks map[string]int      `yaml:"expect_stacks,omitempty"`
	ExpectValue  map[string]float64  `yaml:"expect_value,omitempty"`
	ExpectTags   []string            `yaml:"expect_tags,omitempty"`
	ExpectSlot   map[string][]string `yaml:"expect_slot,omitempty"`
}

// Operation names.
const (
	OpStart             = "start"
	OpEnd               = "end"
	OpAcquire           = "acquire"
	OpRemove            = "remove"
	OpEquip             = "equip"
	OpUnequip           = "unequip"
	OpTag               = "tag"
	OpUntag             = "untag"
	OpSet               = "set"
	OpAdd               = "add"
	OpQuery             = "query"
	OpCheck             = "check"
	OpSnapshotRoundtrip = "snapshot_roundtrip"
)

var knownOps = map[string]bool{
	OpStart: true, OpEnd: true, OpAcquire: true, OpRemove: true,
	OpEquip: true, OpUnequip: true, OpTag: true, OpUntag: true,
	OpSet: true, OpAdd: true, OpQuery: true, OpCheck: true,
	OpSnapshotRoundtrip: true,
}

// Parse decodes a script. Unknown fields are rejected so typos surface.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// LoadFile reads and parses a script file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, st := range sc.Steps {
		if !knownOps[st.Do] {
			return fmt.Errorf("step %d: unknown operation %q", i+1, st.Do)
		}
		switch st.Do {
		case OpAcquire, OpRemove:
			if st.Action == "" {
				return fmt.Errorf("step %d: %s needs an action", i+1, st.Do)
			}
		case OpEquip, OpUnequip:
			if st.Action == "" || st.Slot == "" {
				return fmt.Errorf("step %d: %s needs an action and a slot", i+1, st.Do)
			}
		case OpTag, OpUntag:
			if st.Tag == "" {
				return fmt.Errorf("step %d: %s needs a tag", i+1, st.Do)
			}
		case OpSet, OpAdd:
			if st.Key == "" {
				return fmt.Errorf("step %d: %s needs a key", i+1, st.Do)
			}
		case OpQuery:
			if st.Pick < 0 {
				return fmt.Errorf("step %d: pick must be positive", i+1)
			}
		}
	}
	return nil
}
