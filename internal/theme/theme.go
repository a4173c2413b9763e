// Package theme provides the Lip Gloss color palette and reusable styles
// for the console. It is a leaf package with no internal imports to avoid
// import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Connection state colors.
var (
	ColorIdle       = lipgloss.Color("#4b5563")
	ColorConnecting = lipgloss.Color("#d97706")
	ColorOpen       = lipgloss.Color("#16a34a")
	ColorClosed     = lipgloss.Color("#6b7280")
	ColorErrored    = lipgloss.Color("#dc2626")
)

// Comment colors.
var (
	ColorAuthor = lipgloss.Color("#06b6d4")
	ColorHandle = lipgloss.Color("#6b7280")
	ColorOrder  = lipgloss.Color("#f59e0b")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#a855f7")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// StateColor returns the color for a connection state name.
func StateColor(state string) lipgloss.Color {
	switch state {
	case "idle":
		return ColorIdle
	case "connecting":
		return ColorConnecting
	case "open":
		return ColorOpen
	case "closed":
		return ColorClosed
	case "errored":
		return ColorErrored
	default:
		return ColorDimmed
	}
}

// StateGlyph returns a Unicode glyph for a connection state name.
func StateGlyph(state string) string {
	switch state {
	case "open":
		return "●"
	case "connecting":
		return "◌"
	case "errored":
		return "✗"
	case "closed":
		return "○"
	default:
		return "·"
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleAuthor = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAuthor)
)

// PanelStyle is the double-bordered frame shared by overlays.
func PanelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(ColorBorder)
}
