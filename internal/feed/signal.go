package feed

import "time"

// Signal is a lifecycle or data notification posted by a transport link.
// Every signal carries the generation of the link that produced it.
type Signal interface {
	generation() uint64
}

// Opened reports that the link finished its handshake.
type Opened struct{ Gen uint64 }

// Received carries one decoded comment.
type Received struct {
	Gen   uint64
	Event Event
}

// Ended reports that the remote side ended the stream.
type Ended struct {
	Gen uint64
	Err error
}

// Failed reports a dial failure or an abnormal teardown.
type Failed struct {
	Gen uint64
	Err error
}

// Malformed reports a frame that could not be decoded as an Event.
type Malformed struct {
	Gen uint64
	Raw []byte
	Err error
}

func (s Opened) generation() uint64    { return s.Gen }
func (s Received) generation() uint64  { return s.Gen }
func (s Ended) generation() uint64     { return s.Gen }
func (s Failed) generation() uint64    { return s.Gen }
func (s Malformed) generation() uint64 { return s.Gen }

// Dial asks a transport to open one link.
type Dial struct {
	Gen      uint64
	Endpoint string
	// Delay is how long the transport waits before dialing.
	Delay time.Duration
}

// Link is one open (or opening) transport connection.
type Link interface {
	Close() error
}

// Transport opens links. Open must not block; progress is reported through
// signals delivered to the controller's owner.
type Transport interface {
	Open(d Dial) Link
}
