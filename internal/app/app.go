// Package app is the root Bubble Tea model of the console. All feed
// controller calls happen on the Bubble Tea update goroutine.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/minhduc152001/tik-live-cms/internal/theme"
	"github.com/minhduc152001/tik-live-cms/internal/views/debug"
	"github.com/minhduc152001/tik-live-cms/internal/views/help"
	"github.com/minhduc152001/tik-live-cms/internal/views/livechat"
	"github.com/minhduc152001/tik-live-cms/internal/views/resources"
	"github.com/minhduc152001/tik-live-cms/internal/views/status"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDebug
	OverlayResources
	OverlayHelp
)

// API is the part of the REST client the console uses.
type API interface {
	resources.Lister
	Me(ctx context.Context) (client.Row, error)
}

// Recorder receives every appended comment.
type Recorder interface {
	Record(s feed.Session, e feed.Event)
}

// Deps wires the console to its collaborators. Transport and Inbox are
// required; the rest are optional.
type Deps struct {
	Transport feed.Transport
	Inbox     <-chan feed.Signal
	Feed      feed.Options
	API       API
	Recorder  Recorder
	// Target is watched right after start when set.
	Target string
}

type meMsg struct {
	user client.Row
	err  error
}

// journal collects controller callbacks until the next sync.
type journal struct {
	transitions []string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl    *feed.Controller
	inbox   <-chan feed.Signal
	api     API
	journal *journal
	target  string

	keys    KeyMap
	width   int
	height  int
	overlay Overlay

	statusBar status.Model
	chat      livechat.Model
	debugLog  debug.Model
	resources resources.Model
}

// New creates the root model and its feed controller.
func New(d Deps) Model {
	j := &journal{}
	opts := d.Feed
	onTransition := opts.OnTransition
	opts.OnTransition = func(from, to feed.State) {
		j.transitions = append(j.transitions, fmt.Sprintf("%s -> %s", from, to))
		if onTransition != nil {
			onTransition(from, to)
		}
	}
	if d.Recorder != nil {
		onEvent := opts.OnEvent
		opts.OnEvent = func(s feed.Session, e feed.Event) {
			d.Recorder.Record(s, e)
			if onEvent != nil {
				onEvent(s, e)
			}
		}
	}

	var lister resources.Lister
	if d.API != nil {
		lister = d.API
	}

	ctrl := feed.New(d.Transport, opts)
	m := Model{
		ctrl:      ctrl,
		inbox:     d.Inbox,
		api:       d.API,
		journal:   j,
		target:    d.Target,
		keys:      DefaultKeyMap(),
		statusBar: status.New(),
		chat:      livechat.New(ctrl),
		debugLog:  debug.New(),
		resources: resources.New(lister),
	}
	m.statusBar.Archived = d.Recorder != nil
	if d.Target != "" {
		m.chat.SetValue(d.Target)
	}
	return m
}

// Controller exposes the feed controller.
func (m Model) Controller() *feed.Controller { return m.ctrl }

// Init starts listening for transport signals.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{client.WaitForSignal(m.inbox)}
	if m.target != "" {
		target := m.target
		cmds = append(cmds, func() tea.Msg { return livechat.ConnectMsg{Target: target} })
	}
	if m.api != nil {
		api := m.api
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			user, err := api.Me(ctx)
			return meMsg{user: user, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.chat.Width = msg.Width
		m.chat.Height = msg.Height - 5
		m.resources.Width = msg.Width
		m.resources.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case feed.Signal:
		m.handleSignal(msg)
		return m, client.WaitForSignal(m.inbox)

	case livechat.ConnectMsg:
		m.ctrl.SetTarget(msg.Target)
		if m.ctrl.Connect() {
			s := m.ctrl.Session()
			m.debugLog.Addf(debug.KindFeed, "watching %q at %s", s.Target, s.Endpoint)
			m.chat.Blur()
		}
		m.sync()
		return m, nil

	case resources.LoadedMsg:
		if msg.Err != nil {
			m.debugLog.Addf(debug.KindAPI, "%s: %v", msg.Name, msg.Err)
		}
		var cmd tea.Cmd
		m.resources, cmd = m.resources.Update(msg)
		return m, cmd

	case meMsg:
		if msg.err != nil {
			m.debugLog.Addf(debug.KindAPI, "users/me: %v", msg.err)
			return m, nil
		}
		if email, ok := msg.user["email"].(string); ok {
			m.statusBar.User = email
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m *Model) handleSignal(sig feed.Signal) {
	if !m.ctrl.Handle(sig) {
		return
	}
	switch s := sig.(type) {
	case feed.Malformed:
		m.debugLog.Addf(debug.KindDrop, "malformed frame (%d bytes): %v", len(s.Raw), s.Err)
	case feed.Failed:
		m.debugLog.Addf(debug.KindErr, "%v", s.Err)
	case feed.Ended:
		if s.Err != nil {
			m.debugLog.Addf(debug.KindErr, "closed: %v", s.Err)
		}
	}
	m.sync()
}

// sync copies controller state into the views.
func (m *Model) sync() {
	for _, t := range m.journal.transitions {
		m.debugLog.Add(debug.KindFeed, t)
	}
	m.journal.transitions = m.journal.transitions[:0]

	s := m.ctrl.Session()
	m.statusBar.Session = s
	m.statusBar.Events = m.ctrl.Len()
	m.statusBar.Dropped = m.ctrl.Dropped()
	m.chat.Session = s
	m.chat.Sync()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Close()
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch m.overlay {
	case OverlayHelp:
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) {
			m.overlay = OverlayNone
		}
		return m, nil

	case OverlayDebug:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Debug):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.debugLog.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debugLog.ScrollDown(1)
		}
		return m, nil

	case OverlayResources:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			cmd := m.resources.Load()
			return m, cmd
		}
		var cmd tea.Cmd
		m.resources, cmd = m.resources.Update(msg)
		return m, cmd
	}

	if m.chat.Focused() {
		if key.Matches(msg, m.keys.Escape) {
			m.chat.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Input):
		cmd := m.chat.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		m.chat.ScrollUp(1)

	case key.Matches(msg, m.keys.Down):
		m.chat.ScrollDown(1)

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp

	case key.Matches(msg, m.keys.Resources):
		m.overlay = OverlayResources
		cmd := m.resources.Load()
		return m, cmd

	case key.Matches(msg, m.keys.Reconnect):
		if m.ctrl.Connect() {
			m.debugLog.Addf(debug.KindFeed, "reconnect %q", m.ctrl.Session().Target)
		}
		m.sync()

	case key.Matches(msg, m.keys.Disconnect):
		m.ctrl.Disconnect()
		m.sync()

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Reset()
		m.sync()
	}
	return m, nil
}

// View renders the full console.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayDebug:
		return m.debugLog.View(m.width, m.height)
	case OverlayResources:
		return m.resources.View()
	case OverlayHelp:
		return help.View(m.keys.Bindings(), m.width)
	}

	hint := "  /:target  j/k:scroll  c:reconnect  x:disconnect  l:lists  d:debug  ?:help  q:quit"
	if m.chat.Focused() {
		hint = "  enter:watch  esc:done"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar.View(),
		m.chat.View(),
		theme.StyleDimmed.Render(hint),
	)
}
