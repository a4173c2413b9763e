package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	pongTimeout      = 60 * time.Second
	pingInterval     = 30 * time.Second

	// DefaultInboxSize is the signal buffer shared by every link of a dialer.
	DefaultInboxSize = 256
)

// FeedDialer opens live comment streams over WebSocket. Every link posts its
// signals into one inbox, which the owner drains on a single goroutine.
type FeedDialer struct {
	session *Session
	dialer  *websocket.Dialer
	inbox   chan feed.Signal
	now     func() time.Time
}

// NewFeedDialer creates a dialer that authenticates with session (may be nil).
func NewFeedDialer(session *Session, inboxSize int) *FeedDialer {
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}
	return &FeedDialer{
		session: session,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		inbox: make(chan feed.Signal, inboxSize),
		now:   time.Now,
	}
}

// Inbox returns the channel every link posts to.
func (d *FeedDialer) Inbox() <-chan feed.Signal {
	return d.inbox
}

type feedLink struct {
	cancel context.CancelFunc
}

func (l *feedLink) Close() error {
	l.cancel()
	return nil
}

// Open starts dialing in the background and returns immediately.
func (d *FeedDialer) Open(dial feed.Dial) feed.Link {
	ctx, cancel := context.WithCancel(context.Background())
	go d.run(ctx, dial)
	return &feedLink{cancel: cancel}
}

func (d *FeedDialer) run(ctx context.Context, dial feed.Dial) {
	if dial.Delay > 0 {
		timer := time.NewTimer(dial.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	header := http.Header{}
	d.session.Authorize(header)

	conn, resp, err := d.dialer.DialContext(ctx, dial.Endpoint, header)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if resp != nil {
			err = fmt.Errorf("%w (HTTP %d)", err, resp.StatusCode)
		}
		log.Printf("ws dial error: %v", err)
		d.post(ctx, feed.Failed{Gen: dial.Gen, Err: fmt.Errorf("dial %s: %w", dial.Endpoint, err)})
		return
	}
	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer func() {
		if stop() {
			conn.Close()
		}
	}()

	if !d.post(ctx, feed.Opened{Gen: dial.Gen}) {
		return
	}
	go pingLoop(ctx, conn)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				d.post(ctx, feed.Ended{Gen: dial.Gen, Err: err})
			} else {
				d.post(ctx, feed.Failed{Gen: dial.Gen, Err: err})
			}
			return
		}

		var ev feed.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			if !d.post(ctx, feed.Malformed{Gen: dial.Gen, Raw: data, Err: err}) {
				return
			}
			continue
		}
		ev.ReceivedAt = d.now()
		if !d.post(ctx, feed.Received{Gen: dial.Gen, Event: ev}) {
			return
		}
	}
}

// post delivers sig unless the link has been closed. It blocks while the
// inbox is full, which stops reading from the socket.
func (d *FeedDialer) post(ctx context.Context, sig feed.Signal) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case d.inbox <- sig:
		return true
	case <-ctx.Done():
		return false
	}
}

// pingLoop keeps the connection alive until ctx is cancelled or a write fails.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// WaitForSignal returns a Bubble Tea command that delivers the next signal
// from inbox. Re-issue it after each delivery.
func WaitForSignal(inbox <-chan feed.Signal) tea.Cmd {
	return func() tea.Msg {
		sig, ok := <-inbox
		if !ok {
			return nil
		}
		return sig
	}
}
