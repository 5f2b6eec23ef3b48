package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/roguecore/console"
)

// renderStatusBar produces a full-width inverted status line showing the
// run, owned actions and play time.
func (m Model) renderStatusBar() string {
	eng := m.session.Engine

	title := m.session.Content.Meta.Title
	if title == "" {
		title = "roguecore"
	}

	status := "no run"
	if eng.IsRunActive() {
		status = "run"
		if seed := eng.State.Seed; seed != 0 {
			status = fmt.Sprintf("run #%d", seed)
		}
	}

	left := fmt.Sprintf(" %s | %s", title, status)
	played := time.Duration(eng.PlayTime() * float64(time.Second)).Round(time.Second)
	right := fmt.Sprintf("T:%s ", played)

	// Show owned action names if they fit, otherwise just the count.
	owned := eng.AllAcquired()
	if len(owned) > 0 {
		names := make([]string, len(owned))
		for i, a := range owned {
			names[i] = console.DisplayName(a)
		}
		candidate := fmt.Sprintf("Owned: %s | T:%s ", strings.Join(names, ", "), played)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Owned: %d | T:%s ", len(owned), played)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
