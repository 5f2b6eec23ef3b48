package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Bold(true)

	styleOfferNumber = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	styleLoss = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindHeader
	kindOffer
	kindGain
	kindLoss
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case isOfferLine(line):
		return kindOffer
	case strings.HasPrefix(line, "Acquired "),
		strings.HasPrefix(line, "Equipped "),
		strings.HasPrefix(line, "Added tag "),
		strings.HasPrefix(line, "Run complete"):
		return kindGain
	case strings.HasPrefix(line, "Removed "),
		strings.HasPrefix(line, "Unequipped "),
		strings.HasPrefix(line, "Run over"):
		return kindLoss
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return kindHeader
	default:
		return kindText
	}
}

// isOfferLine matches numbered offer entries such as "  2) Fireball".
func isOfferLine(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	return i > 0 && i < len(trimmed) && trimmed[i] == ')'
}

// styledOffer renders an offer line with its number highlighted.
func styledOffer(line string) string {
	idx := strings.Index(line, ")")
	if idx < 0 {
		return styleText.Render(line)
	}
	return styleOfferNumber.Render(line[:idx+1]) + styleText.Render(line[idx+1:])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
