// Package tui provides a Bubble Tea terminal UI for roguecore runs.
package tui

// History keeps recently submitted commands for up/down recall. It holds at
// most max entries and drops the oldest first.
type History struct {
	entries []string
	max     int
	pos     int // len(entries) means fresh input
}

// NewHistory creates a history buffer with the given maximum size.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{entries: make([]string, 0, max), max: max}
}

// Push records a command. Repeating the last command is a no-op.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		h.pos = n
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append(h.entries, cmd)
	h.pos = len(h.entries)
}

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps forward to a newer command. It reports false once the cursor
// moves past the newest entry.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return "", false
	}
	return h.entries[h.pos], true
}

// ResetCursor returns the cursor to fresh input.
func (h *History) ResetCursor() {
	h.pos = len(h.entries)
}
