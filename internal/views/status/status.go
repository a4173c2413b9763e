package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/minhduc152001/tik-live-cms/internal/format"
	"github.com/minhduc152001/tik-live-cms/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Session  feed.Session
	Events   int
	Dropped  int
	Archived bool
	User     string
	Width    int
}

func New() Model {
	return Model{}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	state := m.Session.State.String()
	connStr := lipgloss.NewStyle().
		Foreground(theme.StateColor(state)).
		Render(theme.StateGlyph(state) + " " + format.StateLabel(m.Session))

	counts := fmt.Sprintf("%d comments", m.Events)
	if m.Dropped > 0 {
		counts += lipgloss.NewStyle().Foreground(theme.ColorWarning).
			Render(fmt.Sprintf("  %d dropped", m.Dropped))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + counts
	if m.Archived {
		content += sep + theme.StyleDimmed.Render("archiving")
	}
	if m.User != "" {
		content += sep + theme.StyleDimmed.Render(m.User)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
