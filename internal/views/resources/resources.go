// Package resources shows read-only admin collections in a table overlay.
package resources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/minhduc152001/tik-live-cms/internal/resource"
	"github.com/minhduc152001/tik-live-cms/internal/theme"
)

const fetchTimeout = 15 * time.Second

// Lister fetches one collection.
type Lister interface {
	List(ctx context.Context, path string) ([]client.Row, error)
}

// LoadedMsg carries the result of a fetch.
type LoadedMsg struct {
	Name string
	Rows []client.Row
	Err  error
}

// Model is the resources overlay.
type Model struct {
	lister    Lister
	resources []resource.Resource
	idx       int
	table     table.Model
	loading   bool
	err       error
	count     int
	Width     int
	Height    int
	next      key.Binding
	prev      key.Binding
}

func New(lister Lister) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	m := Model{
		lister:    lister,
		resources: resource.All(),
		table:     t,
		next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next resource")),
		prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev resource")),
	}
	m.applyColumns()
	return m
}

// Current returns the resource on screen.
func (m Model) Current() resource.Resource { return m.resources[m.idx] }

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// Err returns the last fetch error.
func (m Model) Err() error { return m.err }

// Rows returns the rendered table rows.
func (m Model) Rows() []table.Row { return m.table.Rows() }

// Load starts fetching the current resource.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	m.err = nil
	r := m.Current()
	lister := m.lister
	return func() tea.Msg {
		if lister == nil {
			return LoadedMsg{Name: r.Name, Err: errors.New("no API client configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rows, err := lister.List(ctx, r.Path)
		return LoadedMsg{Name: r.Name, Rows: rows, Err: err}
	}
}

// Update handles fetch results, resource cycling and table navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Name != m.Current().Name {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			m.table.SetRows(nil)
			m.count = 0
			return m, nil
		}
		r := m.Current()
		rows := make([]table.Row, 0, len(msg.Rows))
		for _, row := range msg.Rows {
			rows = append(rows, table.Row(r.Cells(row)))
		}
		m.table.SetRows(rows)
		m.table.GotoTop()
		m.count = len(rows)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.next):
			m.idx = (m.idx + 1) % len(m.resources)
			m.applyColumns()
			cmd := m.Load()
			return m, cmd
		case key.Matches(msg, m.prev):
			m.idx = (m.idx - 1 + len(m.resources)) % len(m.resources)
			m.applyColumns()
			cmd := m.Load()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// applyColumns switches the table to the current resource. Rows are cleared
// first so no row is rendered against the wrong column set.
func (m *Model) applyColumns() {
	r := m.Current()
	cols := make([]table.Column, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.count = 0
}

func (m Model) View() string {
	width := m.Width - 4
	if width < 40 {
		width = 40
	}
	height := m.Height - 10
	if height < 5 {
		height = 5
	}
	m.table.SetHeight(height)

	var tabs []string
	for i, r := range m.resources {
		if i == m.idx {
			tabs = append(tabs, theme.StyleSelected.Underline(true).Render(r.Title))
		} else {
			tabs = append(tabs, theme.StyleDimmed.Render(r.Title))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(tabs, "  ")...)

	var body string
	switch {
	case m.loading:
		body = theme.StyleDimmed.Render("Loading " + m.Current().Title + "...")
	case errors.Is(m.err, client.ErrUnauthorized):
		body = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("Not signed in or token expired. Set CMS_TOKEN.")
	case m.err != nil:
		body = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("Failed to load: " + m.err.Error())
	default:
		body = m.table.View()
	}

	help := theme.StyleDimmed.Render(fmt.Sprintf("tab:next  shift+tab:prev  j/k:move  r:reload  esc:close  %d rows", m.count))
	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", help)
	return theme.PanelStyle(width).Render(content)
}

func joinWithGap(parts []string, gap string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, p)
	}
	return out
}
