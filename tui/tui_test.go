package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/roguecore/console"
	"github.com/nathoo/roguecore/engine"
	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[trace] Events: 2", kindTrace},
		{"  1) Fireball [x1]", kindOffer},
		{"12) Lens", kindOffer},
		{"Acquired Fireball (1/3).", kindGain},
		{"Equipped Fireball in Slot.Active.", kindGain},
		{"Run complete. Victory after 2m0s.", kindGain},
		{"Removed Fireball (0/3 left).", kindLoss},
		{"Run over after 10s.", kindLoss},
		{"Actions (3):", kindHeader},
		{"Owned:", kindHeader},
		{"  Slot.Active (1): empty", kindText},
		{"Choose well.", kindText},
		{"1 more thing", kindText},
		{"", kindText},
	}

	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestStyledOffer_KeepsText(t *testing.T) {
	out := styledOffer("  2) Lens")
	if !strings.Contains(out, "2)") || !strings.Contains(out, "Lens") {
		t.Errorf("expected number and name in output, got %q", out)
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short line", "hello world", 80, "hello world"},
		{"exact fit", "hello world", 11, "hello world"},
		{"wraps", "hello world foo", 11, "hello world\nfoo"},
		{"long word", "superlongword", 5, "superlongword"},
		{"zero width", "hello world", 0, "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordWrap(tt.text, tt.width)
			if got != tt.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestHistory_PrevNext(t *testing.T) {
	h := NewHistory(10)
	h.Push("start")
	h.Push("offer level_up")
	h.Push("pick 1")

	prev, ok := h.Prev()
	if !ok || prev != "pick 1" {
		t.Errorf("expected 'pick 1', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "offer level_up" {
		t.Errorf("expected 'offer level_up', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "start" {
		t.Errorf("expected 'start', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "start" {
		t.Errorf("expected 'start' at boundary, got %q", prev)
	}

	next, ok := h.Next()
	if !ok || next != "offer level_up" {
		t.Errorf("expected 'offer level_up', got %q", next)
	}
	next, _ = h.Next()
	if next != "pick 1" {
		t.Errorf("expected 'pick 1', got %q", next)
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false past the newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(10)

	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("owned")
	h.Push("owned")
	h.Push("owned")

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

// testModel returns a sized model over a two-action content pack.
func testModel(t *testing.T) Model {
	t.Helper()
	content := &types.Content{
		Meta: types.ContentMeta{Title: "TUI Test", Version: "1.0", Author: "Test", Intro: "Pick wisely."},
		Actions: []*types.ActionDef{
			{ID: "fireball", Name: "Fireball", Tags: []string{"Type.Active"}, BaseWeight: 1, MaxStacks: 3, AutoApply: true},
			{ID: "lens", Tags: []string{"Type.Passive"}, BaseWeight: 1, MaxStacks: 1, AutoApply: true},
		},
		Presets:      map[string]*types.PoolPreset{},
		SlotCapacity: map[string]int{},
	}
	cat := catalog.New()
	cat.RegisterAll(content.Actions)
	eng := engine.New(cat, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s := console.New(eng, content)
	s.SaveDir = t.TempDir()

	m := New(s)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(input)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func rawText(m Model) string {
	var b strings.Builder
	for _, rl := range m.rawLines {
		b.WriteString(rl.text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestInitialOutput_ShowsIntro(t *testing.T) {
	m := testModel(t)
	msg := m.initialOutput()()
	updated, _ := m.Update(msg)
	m = updated.(Model)

	text := rawText(m)
	if !strings.Contains(text, "TUI Test") {
		t.Errorf("expected title in intro, got %q", text)
	}
	if !strings.Contains(text, "Pick wisely.") {
		t.Errorf("expected intro text, got %q", text)
	}
}

func TestHandleEnter_RunsCommand(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "start 7")
	m, _ = submit(t, m, "acquire fireball")

	text := rawText(m)
	if !strings.Contains(text, "> acquire fireball") {
		t.Errorf("expected echoed input, got %q", text)
	}
	if !strings.Contains(text, "Acquired Fireball") {
		t.Errorf("expected acquisition message, got %q", text)
	}
	if m.session.Engine.Stacks(m.session.Content.Actions[0]) != 1 {
		t.Error("expected fireball to be owned")
	}
	if m.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.input.Value())
	}
}

func TestHandleEnter_EmptyInput(t *testing.T) {
	m := testModel(t)
	before := len(m.rawLines)
	m, _ = submit(t, m, "   ")
	if len(m.rawLines) != before {
		t.Errorf("expected no output for blank input, got %d new lines", len(m.rawLines)-before)
	}
}

func TestHandleEnter_SystemLines(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "/bogus")

	var found bool
	for _, rl := range m.rawLines {
		if rl.isSystem && strings.Contains(rl.text, "Unknown command") {
			found = true
		}
	}
	if !found {
		t.Error("expected unknown command as a system line")
	}
}

func TestHandleEnter_Quit(t *testing.T) {
	m := testModel(t)
	m, cmd := submit(t, m, "/quit")
	if !m.quitting {
		t.Error("expected quitting after /quit")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("expected empty view while quitting")
	}
}

func TestHistory_UpRecallsInput(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "start")
	m, _ = submit(t, m, "owned")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if m.input.Value() != "owned" {
		t.Errorf("expected 'owned' from history, got %q", m.input.Value())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.input.Value() != "" {
		t.Errorf("expected empty input after down, got %q", m.input.Value())
	}
}

func TestStatusBar(t *testing.T) {
	m := testModel(t)
	bar := m.renderStatusBar()
	if !strings.Contains(bar, "TUI Test") || !strings.Contains(bar, "no run") {
		t.Errorf("expected title and idle status, got %q", bar)
	}

	m, _ = submit(t, m, "start 42")
	m, _ = submit(t, m, "acquire fireball")
	bar = m.renderStatusBar()
	if !strings.Contains(bar, "run #42") {
		t.Errorf("expected seeded run in status, got %q", bar)
	}
	if !strings.Contains(bar, "Owned: Fireball") {
		t.Errorf("expected owned actions in status, got %q", bar)
	}
}

func TestView_BeforeSize(t *testing.T) {
	content := &types.Content{Presets: map[string]*types.PoolPreset{}, SlotCapacity: map[string]int{}}
	eng := engine.New(catalog.New())
	m := New(console.New(eng, content))
	if m.View() != "Loading..." {
		t.Errorf("expected loading view, got %q", m.View())
	}
}
