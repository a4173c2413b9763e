package feed

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options configures a Controller. The zero value reconnects forever with
// the default backoff and keeps every event.
type Options struct {
	BaseURL   string
	Reconnect ReconnectPolicy
	Retention Retention

	// OnTransition is called after every state change.
	OnTransition func(from, to State)
	// OnEvent is called after an event has been appended.
	OnEvent func(s Session, e Event)

	NewID func() string
	Now   func() time.Time
}

// Controller owns at most one transport link and the ordered list of events
// received through it. It is not safe for concurrent use: every method,
// including Handle, must be called from the same goroutine.
type Controller struct {
	opts      Options
	transport Transport

	pending string
	session Session
	gen     uint64
	link    Link

	events   []Event
	appended int
	dropped  int
	closed   bool
}

// New creates an idle controller that opens links through t.
func New(t Transport, opts Options) *Controller {
	if opts.Reconnect.Mode == "" {
		opts.Reconnect = DefaultReconnectPolicy()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{opts: opts, transport: t}
}

// SetTarget stores the target to watch on the next Connect.
func (c *Controller) SetTarget(id string) {
	c.pending = strings.TrimSpace(id)
}

// Pending returns the stored target.
func (c *Controller) Pending() string { return c.pending }

// Connect opens a link to the pending target, replacing any current link.
// Accumulated events are kept. It reports false and does nothing when the
// pending target is empty or the controller has been closed.
func (c *Controller) Connect() bool {
	if c.closed || c.pending == "" {
		return false
	}
	c.closeLink()

	c.session = Session{
		ID:        c.opts.NewID(),
		Target:    c.pending,
		Endpoint:  EndpointFor(c.opts.BaseURL, c.pending),
		State:     c.session.State,
		StartedAt: c.opts.Now(),
	}
	log.Printf("feed: session %s watching %q at %s", c.session.ID, c.session.Target, c.session.Endpoint)
	c.dial(0)
	return true
}

// Handle applies one transport signal. Signals from links that have been
// replaced or closed are ignored; Handle reports whether sig was applied.
func (c *Controller) Handle(sig Signal) bool {
	if c.closed || c.link == nil || sig.generation() != c.gen {
		return false
	}

	switch s := sig.(type) {
	case Opened:
		c.session.Attempts = 0
		c.session.LastErr = nil
		c.setState(Open)

	case Received:
		c.append(s.Event)

	case Ended:
		c.session.LastErr = s.Err
		c.closeLink()
		c.setState(Closed)
		c.reconnect()

	case Failed:
		c.session.LastErr = s.Err
		log.Printf("feed: session %s transport failed: %v", c.session.ID, s.Err)
		c.closeLink()
		c.setState(Errored)
		c.reconnect()

	case Malformed:
		c.dropped++
		log.Printf("feed: session %s dropped malformed frame (%d bytes): %v", c.session.ID, len(s.Raw), s.Err)

	default:
		return false
	}
	return true
}

// Disconnect closes the current link without reconnecting.
func (c *Controller) Disconnect() {
	if c.link == nil {
		return
	}
	c.closeLink()
	c.setState(Closed)
}

// Close tears the controller down. No link survives it and later signals are
// ignored.
func (c *Controller) Close() {
	c.Disconnect()
	c.closed = true
}

// Reset clears the accumulated events.
func (c *Controller) Reset() {
	c.events = nil
	c.appended = 0
	c.dropped = 0
}

// State returns the current connection state.
func (c *Controller) State() State { return c.session.State }

// Session returns a copy of the current session.
func (c *Controller) Session() Session { return c.session }

// Events returns a copy of the accumulated events in arrival order.
func (c *Controller) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// EventsRange returns a copy of the events in [start, end), clamped to the
// accumulated list.
func (c *Controller) EventsRange(start, end int) []Event {
	if start < 0 {
		start = 0
	}
	if end > len(c.events) {
		end = len(c.events)
	}
	if start >= end {
		return nil
	}
	out := make([]Event, end-start)
	copy(out, c.events[start:end])
	return out
}

// Len returns the number of accumulated events.
func (c *Controller) Len() int { return len(c.events) }

// Appended counts events appended since the last Reset, including those
// retention has since dropped.
func (c *Controller) Appended() int { return c.appended }

// Dropped returns how many malformed frames were discarded since the last
// Reset.
func (c *Controller) Dropped() int { return c.dropped }

func (c *Controller) append(e Event) {
	c.events = append(c.events, e)
	c.appended++
	if n := c.opts.Retention.MaxEvents; n > 0 && len(c.events) > n {
		c.events = c.events[len(c.events)-n:]
	}
	if c.opts.OnEvent != nil {
		c.opts.OnEvent(c.session, e)
	}
}

func (c *Controller) dial(delay time.Duration) {
	c.gen++
	c.session.Attempts++
	c.setState(Connecting)
	c.link = c.transport.Open(Dial{
		Gen:      c.gen,
		Endpoint: c.session.Endpoint,
		Delay:    delay,
	})
}

func (c *Controller) reconnect() {
	if c.opts.Reconnect.Mode != ReconnectAlways {
		return
	}
	delay := c.opts.Reconnect.Delay(c.session.Attempts + 1)
	log.Printf("feed: session %s reconnecting to %q in %v", c.session.ID, c.session.Target, delay)
	c.dial(delay)
}

// closeLink closes the current link and invalidates its generation.
func (c *Controller) closeLink() {
	if c.link == nil {
		return
	}
	if err := c.link.Close(); err != nil {
		log.Printf("feed: session %s close: %v", c.session.ID, err)
	}
	c.link = nil
	c.gen++
}

func (c *Controller) setState(to State) {
	from := c.session.State
	if from == to {
		return
	}
	c.session.State = to
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(from, to)
	}
}
