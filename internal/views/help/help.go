// Package help renders the key reference overlay from Markdown.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/minhduc152001/tik-live-cms/internal/theme"
)

const states = `
## Connection

| Banner | Meaning |
|---|---|
| Connecting to *user* | first attempt for this username |
| Connecting / retrying | the stream dropped or failed, waiting to retry |
| Live: *user* | comments are arriving |
| Disconnected | you pressed x, press c to reconnect |

Comments are kept when switching users. Press ctrl+l to clear them.
`

// Markdown builds the help document for bindings.
func Markdown(bindings []key.Binding) string {
	var b strings.Builder
	b.WriteString("# Live console\n\n| Key | Action |\n|---|---|\n")
	for _, k := range bindings {
		h := k.Help()
		if h.Key == "" {
			continue
		}
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	b.WriteString(states)
	return b.String()
}

// View renders the help overlay. The raw Markdown is shown if rendering
// fails.
func View(bindings []key.Binding, width int) string {
	innerW := width - 8
	if innerW < 30 {
		innerW = 30
	}
	md := Markdown(bindings)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(innerW),
	)
	out := md
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = rendered
		}
	}
	return theme.PanelStyle(width - 4).Render(strings.TrimRight(out, "\n") + "\n" + theme.StyleDimmed.Render("esc:close"))
}
