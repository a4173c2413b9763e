package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestMarkdownListsBindings(t *testing.T) {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		key.NewBinding(key.WithKeys("ctrl+c")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "disconnect")),
	}
	md := Markdown(bindings)

	for _, want := range []string{"| `q` | quit |", "| `x` | disconnect |", "Connecting / retrying"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "ctrl+c") {
		t.Error("bindings without help text should be skipped")
	}
}

func TestViewRenders(t *testing.T) {
	v := View([]key.Binding{key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug log"))}, 100)
	if !strings.Contains(v, "debug") {
		t.Errorf("view missing binding:\n%s", v)
	}
	if !strings.Contains(v, "esc:close") {
		t.Error("view missing close hint")
	}
}
