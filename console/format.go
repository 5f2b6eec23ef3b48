package console

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/filter"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// DisplayName returns an action's name, or a title-cased form of its ID:
// "swift_boots" becomes "Swift Boots".
func DisplayName(a *types.ActionDef) string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return TitleCase(a.ID)
}

// TitleCase turns an identifier into words: "crit_lens" -> "Crit Lens",
// "Synergy.Burn" -> "Synergy Burn".
func TitleCase(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '.' || r == '-'
	})
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}

func stackLabel(stacks, maxStacks int) string {
	if maxStacks <= 0 {
		return fmt.Sprintf("x%d", stacks)
	}
	return fmt.Sprintf("%d/%d", stacks, maxStacks)
}

// formatNumber prints a value with grouping, e.g. 12,500 or 1.5.
func formatNumber(v float64) string {
	printer := message.NewPrinter(language.English)
	if v == float64(int64(v)) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

func formatDuration(seconds float64) string {
	return (time.Duration(seconds * float64(time.Second))).Round(time.Second).String()
}

// FormatTrace renders events as [trace] lines.
func FormatTrace(evs []types.Event) []string {
	if len(evs) == 0 {
		return nil
	}
	out := []string{fmt.Sprintf("[trace] Events: %d", len(evs))}
	for _, ev := range evs {
		out = append(out, "[trace]   "+ev.Type+formatEventData(ev.Data))
	}
	return out
}

func formatEventData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "query" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return " " + strings.Join(parts, " ")
}

func (s *Session) listActions() []string {
	all := s.Engine.Catalog.All()
	if len(all) == 0 {
		return []string{"No actions loaded."}
	}
	out := []string{fmt.Sprintf("Actions (%d):", len(all))}
	for _, a := range all {
		line := fmt.Sprintf("  %-16s %s", a.ID, DisplayName(a))
		if len(a.Tags) > 0 {
			line += " [" + strings.Join(a.Tags, ", ") + "]"
		}
		if !catalog.MeetsConditions(a, s.Engine.State.ActiveTags) {
			line += " (locked)"
		}
		out = append(out, line)
	}
	return out
}

func (s *Session) listOwned() []string {
	owned := s.Engine.AllAcquired()
	if len(owned) == 0 {
		return []string{"You have nothing yet."}
	}
	out := []string{"Owned:"}
	for _, a := range owned {
		out = append(out, fmt.Sprintf("  %s %s", DisplayName(a), stackLabel(s.Engine.Stacks(a), a.MaxStacks)))
	}
	return out
}

func (s *Session) listStats() []string {
	keys := state.SortedNumericKeys(s.Engine.State)
	if len(keys) == 0 {
		return []string{"No stats yet."}
	}
	out := []string{"Stats:"}
	for _, k := range keys {
		out = append(out, fmt.Sprintf("  %s: %s", k, formatNumber(s.Engine.Value(k, 0))))
	}
	return out
}

func (s *Session) listSlots() []string {
	seen := map[string]bool{}
	var slots []string
	for slot := range s.Content.SlotCapacity {
		seen[slot] = true
		slots = append(slots, slot)
	}
	for _, slot := range state.SortedSlots(s.Engine.State) {
		if !seen[slot] {
			slots = append(slots, slot)
		}
	}
	if len(slots) == 0 {
		return []string{"No slots."}
	}
	sort.Strings(slots)

	out := []string{"Slots:"}
	for _, slot := range slots {
		var names []string
		for _, a := range s.Engine.SlotContents(slot) {
			names = append(names, DisplayName(a))
		}
		count := fmt.Sprintf("%d", len(names))
		if c, ok := s.Content.SlotCapacity[slot]; ok {
			count = fmt.Sprintf("%d/%d", len(names), c)
		}
		contents := "empty"
		if len(names) > 0 {
			contents = strings.Join(names, ", ")
		}
		out = append(out, fmt.Sprintf("  %s (%s): %s", slot, count, contents))
	}
	return out
}

func (s *Session) listPresets() []string {
	if len(s.Content.Presets) == 0 {
		return []string{"No presets."}
	}
	ids := make([]string, 0, len(s.Content.Presets))
	for id := range s.Content.Presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []string{"Presets:"}
	for _, id := range ids {
		p := s.Content.Presets[id]
		line := fmt.Sprintf("  %s: pool %s, mode %s", id, strings.Join(p.PoolTags, "|"), p.DefaultMode)
		if p.Filter != nil {
			line += ", filter " + filter.Describe(p.Filter)
		}
		out = append(out, line)
	}
	return out
}
