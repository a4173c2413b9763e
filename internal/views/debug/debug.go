// Package debug provides a scrollable log overlay of connection transitions
// and errors.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/minhduc152001/tik-live-cms/internal/theme"
)

const maxEntries = 200

// Entry kinds.
const (
	KindFeed = "feed"
	KindErr  = "err"
	KindAPI  = "api"
	KindDrop = "drop"
)

// Entry is a single log line.
type Entry struct {
	Time    time.Time
	Kind    string
	Message string
}

// Model holds debug log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset from bottom
}

func New() Model {
	return Model{}
}

// Add appends a log entry and caps the buffer.
func (m *Model) Add(kind, message string) {
	m.Entries = append(m.Entries, Entry{
		Time:    time.Now(),
		Kind:    kind,
		Message: message,
	})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	m.Offset = 0
}

// Addf is Add with a format string.
func (m *Model) Addf(kind, format string, args ...any) {
	m.Add(kind, fmt.Sprintf(format, args...))
}

func (m *Model) ScrollUp(n int) {
	m.Offset += n
	max := len(m.Entries) - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
}

func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// prefixWidth is the cell width of "15:04:05.000 feed " ahead of a message.
const prefixWidth = 18

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}
	rows := height - 6
	if rows < 3 {
		rows = 3
	}

	title := theme.StyleHeader.Render(" DEBUG LOG ")
	hint := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d entries", len(m.Entries)))

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No events recorded yet.")
		return theme.PanelStyle(innerW).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
	}

	end := len(m.Entries) - m.Offset
	start := max(end-rows, 0)

	// The panel pads by two cells on each side.
	msgW := innerW - 4 - prefixWidth
	lines := make([]string, 0, end-start)
	for _, e := range m.Entries[start:end] {
		lines = append(lines, renderEntry(e, msgW))
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}
	return theme.PanelStyle(innerW).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, hint))
}

// renderEntry formats one entry on a single line, cutting the message to
// msgW terminal cells.
func renderEntry(e Entry, msgW int) string {
	stamp := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
	kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(4).Render(e.Kind)
	msg := strings.Join(strings.Fields(e.Message), " ")
	if msgW > 3 {
		msg = runewidth.Truncate(msg, msgW, "...")
	}
	return stamp + " " + kind + " " + msg
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case KindFeed:
		return theme.ColorOpen
	case KindErr:
		return theme.ColorErrored
	case KindAPI:
		return theme.ColorAccent
	case KindDrop:
		return theme.ColorWarning
	default:
		return theme.ColorDimmed
	}
}
