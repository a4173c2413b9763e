// Package livechat renders the target input, the connection banner and the
// list of received comments.
package livechat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/minhduc152001/tik-live-cms/internal/format"
	"github.com/minhduc152001/tik-live-cms/internal/theme"
)

// ConnectMsg asks the root model to watch Target.
type ConnectMsg struct {
	Target string
}

// Source is the read side of the comment list. *feed.Controller satisfies it.
type Source interface {
	Len() int
	Appended() int
	EventsRange(start, end int) []feed.Event
}

// Model holds the live chat view state. Comments are read from the source
// one visible page at a time.
type Model struct {
	input   textinput.Model
	src     Source
	seen    int // src.Appended() at the last Sync
	Session feed.Session
	Offset  int // scroll offset from bottom, in comments
	Width   int
	Height  int
}

func New(src Source) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter TikTok username"
	ti.Prompt = "@ "
	ti.CharLimit = 64
	ti.Focus()
	return Model{input: ti, src: src, seen: src.Appended()}
}

// Focused reports whether the target input takes key presses.
func (m Model) Focused() bool { return m.input.Focused() }

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

// Value returns the text in the target input.
func (m Model) Value() string { return m.input.Value() }

func (m *Model) SetValue(s string) { m.input.SetValue(s) }

// Sync catches up with comments appended since the last call. While the
// user is scrolled up the view stays on the same comment, including when
// retention holds the list length constant.
func (m *Model) Sync() {
	appended := m.src.Appended()
	switch {
	case appended < m.seen:
		m.Offset = 0
	case m.Offset > 0:
		m.Offset += appended - m.seen
	}
	m.seen = appended
	m.clampOffset(m.src.Len())
}

func (m *Model) ScrollUp(n int) {
	m.Offset += n
	m.clampOffset(m.src.Len())
}

func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

func (m *Model) clampOffset(n int) {
	max := n - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// Update forwards key presses to the input while it is focused. Enter
// with a non-blank value emits ConnectMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		target := strings.TrimSpace(m.input.Value())
		if target == "" {
			return m, nil
		}
		return m, func() tea.Msg { return ConnectMsg{Target: target} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input, banner and comment list.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	inputBox := theme.StyleBorder.Width(width - 2).Render(m.input.View())
	banner := m.banner()

	listHeight := m.Height - lipgloss.Height(inputBox) - lipgloss.Height(banner) - 2
	if listHeight < 3 {
		listHeight = 3
	}

	list := theme.StyleBorder.
		Width(width - 2).
		Height(listHeight).
		Render(m.renderComments(width-4, listHeight))

	return lipgloss.JoinVertical(lipgloss.Left, inputBox, banner, list)
}

func (m Model) banner() string {
	state := m.Session.State.String()
	style := lipgloss.NewStyle().Bold(true).Foreground(theme.StateColor(state))
	return style.Render(" " + theme.StateGlyph(state) + " " + format.StateLabel(m.Session))
}

// renderComments lays out comments oldest first so the newest sits at the
// bottom, two lines per comment.
func (m Model) renderComments(width, height int) string {
	total := m.src.Len()
	if total == 0 {
		if m.Session.Target == "" {
			return theme.StyleDimmed.Render("Type a username and press enter to watch a live.")
		}
		return theme.StyleDimmed.Render("Waiting for comments...")
	}

	perPage := height / 2
	if perPage < 1 {
		perPage = 1
	}
	end := total - m.Offset
	start := end - perPage
	if start < 0 {
		start = 0
	}

	var lines []string
	for _, e := range m.src.EventsRange(start, end) {
		lines = append(lines, renderComment(e, width)...)
	}
	if m.Offset > 0 {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("↓ %d newer", m.Offset)))
	}
	return strings.Join(lines, "\n")
}

func renderComment(e feed.Event, width int) []string {
	ts := e.CreatedAt
	if ts.IsZero() {
		ts = e.ReceivedAt
	}
	head := theme.StyleAuthor.Render(e.Author())
	if e.SourceHandle != "" {
		head += " " + lipgloss.NewStyle().Foreground(theme.ColorHandle).Render("("+e.SourceHandle+")")
	}
	if !ts.IsZero() {
		head += " " + theme.StyleDimmed.Render(ts.Local().Format("15:04:05"))
	}

	text := strings.ReplaceAll(e.Text, "\n", " ")
	if width > 5 {
		text = runewidth.Truncate(text, width-2, "...")
	}
	return []string{head, "  " + text}
}
