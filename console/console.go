// Package console interprets the text commands shared by the line REPL and
// the terminal UI. It owns no I/O; callers render the returned lines.
package console

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/roguecore/engine"
	"github.com/nathoo/roguecore/engine/events"
	"github.com/nathoo/roguecore/engine/query"
	"github.com/nathoo/roguecore/engine/resolve"
	"github.com/nathoo/roguecore/engine/save"
	"github.com/nathoo/roguecore/types"
)

// Result is the output of one command.
type Result struct {
	Lines  []string
	System bool // meta-command or error output
	Quit   bool
	Events []types.Event
}

// Session holds a console's state between commands.
type Session struct {
	Engine     *engine.Engine
	Content    *types.Content
	SaveDir    string
	QueryCount int
	Trace      bool

	rec     *events.Recorder
	offer   []*types.ActionDef
	offers  int
	lastCmd string
}

// New creates a session over eng. The session subscribes to the engine's bus
// to report events per command.
func New(eng *engine.Engine, content *types.Content) *Session {
	if content == nil {
		content = &types.Content{}
	}
	s := &Session{
		Engine:     eng,
		Content:    content,
		SaveDir:    "saves",
		QueryCount: query.DefaultCount,
		rec:        &events.Recorder{},
	}
	eng.Bus.Subscribe("", s.rec.Record)
	return s
}

// Intro returns the lines shown when a session opens.
func (s *Session) Intro() []string {
	m := s.Content.Meta
	var lines []string
	if m.Title != "" {
		header := m.Title
		if m.Version != "" {
			header += " v" + m.Version
		}
		if m.Author != "" {
			header += " by " + m.Author
		}
		lines = append(lines, header, "")
	}
	if m.Intro != "" {
		lines = append(lines, m.Intro, "")
	}
	lines = append(lines, "Type 'start' to begin a run, /help for commands.")
	return lines
}

// Exec runs one input line.
func (s *Session) Exec(input string) Result {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return Result{}
	}

	if strings.HasPrefix(input, "/") {
		return s.meta(input)
	}

	// "again" / "g" repeats the last command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if s.lastCmd == "" {
			return Result{Lines: []string{"Nothing to repeat."}, System: true}
		}
		input = s.lastCmd
	} else {
		s.lastCmd = input
	}

	s.rec.Reset()
	res := s.command(Parse(input))
	res.Events = append([]types.Event(nil), s.rec.Events...)
	if s.Trace {
		res.Lines = append(res.Lines, FormatTrace(res.Events)...)
	}
	return res
}

func (s *Session) command(c Command) Result {
	cmd, args := c.Verb, c.Args

	switch cmd {
	case "start":
		return s.cmdStart(args)
	case "end":
		return s.cmdEnd(args)
	case "offer":
		return s.cmdOffer(args)
	case "pool":
		return s.cmdPool(args)
	case "pick":
		return s.cmdPick(args)
	case "acquire":
		return s.cmdAcquire(args)
	case "remove":
		return s.cmdRemove(args)
	case "equip":
		return s.cmdEquip(args)
	case "unequip":
		return s.cmdUnequip(args)
	case "tag":
		return s.cmdTag(args)
	case "set", "add":
		return s.cmdValue(cmd, args)
	case "actions":
		return lines(s.listActions())
	case "owned":
		return lines(s.listOwned())
	case "stats":
		return lines(s.listStats())
	case "slots":
		return lines(s.listSlots())
	case "presets":
		return lines(s.listPresets())
	}
	return failf("Unknown command: %s. Type /help for available commands.", cmd)
}

func (s *Session) cmdStart(args []string) Result {
	seed := int64(0)
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return failf("Bad seed %q.", args[0])
		}
		seed = n
	}
	s.Engine.StartRun(seed)
	s.offer = nil
	s.offers = 0
	if seed == 0 {
		return lines([]string{"Run started."})
	}
	return lines([]string{fmt.Sprintf("Run started (seed %d).", seed)})
}

func (s *Session) cmdEnd(args []string) Result {
	if !s.Engine.IsRunActive() {
		return failf("No run in progress.")
	}
	won := len(args) > 0 && (args[0] == "won" || args[0] == "win")
	s.Engine.EndRun(won)
	s.offer = nil
	if won {
		return lines([]string{fmt.Sprintf("Run complete. Victory after %s.", formatDuration(s.Engine.PlayTime()))})
	}
	return lines([]string{fmt.Sprintf("Run over after %s.", formatDuration(s.Engine.PlayTime()))})
}

func (s *Session) cmdOffer(args []string) Result {
	if len(args) == 0 {
		return failf("Usage: offer <preset> [count] [seed]")
	}
	preset, ok := s.Content.Presets[args[0]]
	if !ok {
		return failf("No preset named %q.", args[0])
	}

	q := query.New()
	q.Preset = preset
	q.Count = s.QueryCount
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return failf("Bad count %q.", args[1])
		}
		q.Count = n
	}
	q.Seed = s.nextSeed()
	if len(args) > 2 {
		n, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return failf("Bad seed %q.", args[2])
		}
		q.Seed = n
	}
	return s.showOffer(s.Engine.ExecuteQuery(q))
}

func (s *Session) cmdPool(args []string) Result {
	if len(args) == 0 {
		return failf("Usage: pool <tag> [count]")
	}
	q := query.New()
	q.PoolTags = []string{args[0]}
	q.Mode = types.ModeNewOrAcquired
	q.Count = s.QueryCount
	q.Seed = s.nextSeed()
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return failf("Bad count %q.", args[1])
		}
		q.Count = n
	}
	return s.showOffer(s.Engine.ExecuteQuery(q))
}

// nextSeed derives a per-offer seed from the run seed so seeded runs replay.
// Unseeded runs draw fresh randomness.
func (s *Session) nextSeed() int64 {
	s.offers++
	if s.Engine.State.Seed == 0 {
		return 0
	}
	return s.Engine.State.Seed + int64(s.offers)
}

func (s *Session) showOffer(results []*types.ActionDef) Result {
	s.offer = results
	if len(results) == 0 {
		return lines([]string{"Nothing on offer."})
	}
	out := []string{"On offer:"}
	for i, a := range results {
		out = append(out, fmt.Sprintf("  %d) %s", i+1, s.describeOffer(a)))
	}
	out = append(out, "Type 'pick <n>' to take one.")
	return lines(out)
}

func (s *Session) describeOffer(a *types.ActionDef) string {
	line := DisplayName(a)
	if stacks := s.Engine.Stacks(a); stacks > 0 {
		line += fmt.Sprintf(" (owned %s)", stackLabel(stacks, a.MaxStacks))
	}
	if a.Description != "" {
		line += " - " + a.Description
	}
	return line
}

func (s *Session) cmdPick(args []string) Result {
	if len(s.offer) == 0 {
		return failf("Nothing on offer. Use 'offer' or 'pool' first.")
	}
	if len(args) == 0 {
		return failf("Usage: pick <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.offer) {
		return failf("Pick a number from 1 to %d.", len(s.offer))
	}
	a := s.offer[n-1]
	s.offer = nil
	return s.acquire(a, 1)
}

func (s *Session) cmdAcquire(args []string) Result {
	if len(args) == 0 {
		return failf("Usage: acquire <id> [n]")
	}
	a, fail, ok := s.findAction(args[0], false)
	if !ok {
		return fail
	}
	n := 1
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return failf("Bad stack count %q.", args[1])
		}
		n = v
	}
	return s.acquire(a, n)
}

func (s *Session) acquire(a *types.ActionDef, n int) Result {
	if err := s.Engine.TryAcquire(a, n); err != nil {
		return failf("Cannot acquire %s: %v.", DisplayName(a), err)
	}
	stacks := s.Engine.Stacks(a)
	return lines([]string{fmt.Sprintf("Acquired %s (%s).", DisplayName(a), stackLabel(stacks, a.MaxStacks))})
}

func (s *Session) cmdRemove(args []string) Result {
	if len(args) == 0 {
		return failf("Usage: remove <id> [n|all]")
	}
	a, fail, ok := s.findAction(args[0], true)
	if !ok {
		return fail
	}
	n, all := 1, false
	if len(args) > 1 {
		if args[1] == "all" {
			all = true
		} else {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return failf("Bad stack count %q.", args[1])
			}
			n = v
		}
	}
	if !s.Engine.RemoveAction(a, n, all) {
		return failf("You don't have %s.", DisplayName(a))
	}
	if stacks := s.Engine.Stacks(a); stacks > 0 {
		return lines([]string{fmt.Sprintf("Removed %s (%s left).", DisplayName(a), stackLabel(stacks, a.MaxStacks))})
	}
	return lines([]string{fmt.Sprintf("Removed %s.", DisplayName(a))})
}

func (s *Session) cmdEquip(args []string) Result {
	if len(args) < 2 {
		return failf("Usage: equip <id> <slot>")
	}
	a, fail, ok := s.findAction(args[0], true)
	if !ok {
		return fail
	}
	slot := args[1]
	if capacity, ok := s.Content.SlotCapacity[slot]; ok && s.Engine.IsSlotFull(slot, capacity) {
		return failf("%s is full (%d/%d).", slot, s.Engine.SlotCount(slot), capacity)
	}
	if !s.Engine.Equip(a, slot) {
		return failf("You can't equip %s in %s.", DisplayName(a), slot)
	}
	return lines([]string{fmt.Sprintf("Equipped %s in %s.", DisplayName(a), slot)})
}

func (s *Session) cmdUnequip(args []string) Result {
	if len(args) < 2 {
		return failf("Usage: unequip <id> <slot>")
	}
	a, fail, ok := s.findAction(args[0], true)
	if !ok {
		return fail
	}
	before := s.Engine.SlotCount(args[1])
	s.Engine.Unequip(a, args[1])
	if s.Engine.SlotCount(args[1]) == before {
		return failf("%s is not in %s.", DisplayName(a), args[1])
	}
	return lines([]string{fmt.Sprintf("Unequipped %s from %s.", DisplayName(a), args[1])})
}

// findAction resolves a typed name to an action. An exact reference always
// wins; otherwise, with ownedFirst, held actions are searched before the
// rest of the catalog.
func (s *Session) findAction(name string, ownedFirst bool) (*types.ActionDef, Result, bool) {
	if a, ok := s.Engine.Resolve(name); ok {
		return a, Result{}, true
	}
	scopes := [][]*types.ActionDef{s.Engine.Catalog.All()}
	if ownedFirst {
		scopes = append([][]*types.ActionDef{s.Engine.AllAcquired()}, scopes...)
	}
	a, err := resolve.Action(name, scopes...)
	if err != nil {
		var amb *resolve.AmbiguityError
		if errors.As(err, &amb) {
			return nil, failf("Which %s? (%s)", amb.Name, strings.Join(amb.Candidates, ", ")), false
		}
		return nil, failf("No action named %q.", name), false
	}
	return a, Result{}, true
}

func (s *Session) cmdTag(args []string) Result {
	if len(args) == 0 {
		return failf("Usage: tag +Tag | -Tag")
	}
	var out []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			s.Engine.RemoveTag(arg[1:])
			out = append(out, "Removed tag "+arg[1:]+".")
		case strings.HasPrefix(arg, "+") && len(arg) > 1:
			s.Engine.AddTag(arg[1:])
			out = append(out, "Added tag "+arg[1:]+".")
		default:
			s.Engine.AddTag(arg)
			out = append(out, "Added tag "+arg+".")
		}
	}
	return lines(out)
}

func (s *Session) cmdValue(cmd string, args []string) Result {
	if len(args) < 2 {
		return failf("Usage: %s <key> <value>", cmd)
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return failf("Bad number %q.", args[1])
	}
	key := args[0]
	if cmd == "add" {
		v = s.Engine.AddValue(key, v)
	} else {
		s.Engine.SetValue(key, v)
	}
	return lines([]string{fmt.Sprintf("%s = %s", key, formatNumber(v))})
}

// meta dispatches slash commands.
func (s *Session) meta(input string) Result {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return Result{Lines: []string{"Goodbye."}, System: true, Quit: true}
	case "/save":
		return system(s.cmdSave(arg))
	case "/load":
		return system(s.cmdLoad(arg))
	case "/help":
		return Result{Lines: Help()}
	case "/state":
		return system(s.stateLines()...)
	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return system("Trace output enabled.")
		}
		return system("Trace output disabled.")
	}
	return system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
}

func (s *Session) cmdSave(name string) string {
	if name == "" {
		name = "quicksave"
	}
	if !s.Engine.IsRunActive() {
		return "Save failed: no run in progress"
	}

	data, err := save.Marshal(s.Engine.CreateSnapshot())
	if err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	path := filepath.Join(s.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	return fmt.Sprintf("Run saved to %s.", name)
}

func (s *Session) cmdLoad(name string) string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(s.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Load failed: %v", err)
	}
	sd, err := save.Unmarshal(data)
	if err != nil {
		return fmt.Sprintf("Load failed: %v", err)
	}

	s.Engine.RestoreFromSnapshot(sd)
	s.offer = nil
	return fmt.Sprintf("Run loaded from %s (%d actions, %s played).",
		name, len(s.Engine.AllAcquired()), formatDuration(sd.PlayTime))
}

func (s *Session) stateLines() []string {
	st := s.Engine.State
	out := []string{
		fmt.Sprintf("Run: %s active=%v seed=%d", orNone(st.RunID), st.Active, st.Seed),
		fmt.Sprintf("Play time: %s", formatDuration(s.Engine.PlayTime())),
		fmt.Sprintf("Acquired: %d", len(st.Acquired)),
	}
	if tags := s.Engine.Tags(); len(tags) > 0 {
		out = append(out, "Tags: "+strings.Join(tags, ", "))
	}
	if len(st.Numeric) > 0 {
		out = append(out, fmt.Sprintf("Values: %d", len(st.Numeric)))
	}
	return out
}

// Help returns the command reference.
func Help() []string {
	return []string{
		"System:",
		"  /save [name]  Save run (default: quicksave)",
		"  /load [name]  Load run (default: quicksave)",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /state        Debug: dump run state",
		"  /trace        Toggle event trace output",
		"",
		"Run commands:",
		"  start [seed]              Start a new run",
		"  end [won]                 End the run",
		"  offer <preset> [n] [seed] Draw n choices from a preset",
		"  pool <tag> [n]            Draw n choices from one tag",
		"  pick <n>                  Take choice n from the last offer",
		"  acquire <id> [n]          Add stacks of an action",
		"  remove <id> [n|all]       Remove stacks of an action",
		"  equip <id> <slot>         Put an owned action in a slot",
		"  unequip <id> <slot>       Take it out again",
		"  tag +T | -T               Add or remove a run tag",
		"  set <key> <v>             Set a run value",
		"  add <key> <d>             Add to a run value",
		"  actions | owned | stats | slots | presets",
		"  again (g)                 Repeat your last command",
		"",
		"Shortcuts: a/buy, r/sell, o, p, e, u, i, win, lose, 'level up',",
		"a bare number picks from the offer. Actions match by ID or name.",
	}
}

func lines(out []string) Result {
	return Result{Lines: out}
}

func system(out ...string) Result {
	return Result{Lines: out, System: true}
}

func failf(format string, args ...any) Result {
	return Result{Lines: []string{fmt.Sprintf(format, args...)}, System: true}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
