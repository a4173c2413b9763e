package feed

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the live stream endpoint prefix used by the CMS backend.
const DefaultBaseURL = "ws://localhost:8000/api/v1/ws"

// ReconnectMode selects what happens after a link closes or fails.
type ReconnectMode string

const (
	ReconnectAlways ReconnectMode = "always"
	ReconnectNever  ReconnectMode = "never"
)

// ReconnectPolicy controls automatic reconnects. The delay doubles on every
// consecutive failed attempt and resets once a link opens.
type ReconnectPolicy struct {
	Mode      ReconnectMode
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultReconnectPolicy reconnects forever, starting at one second and
// backing off to thirty.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		Mode:      ReconnectAlways,
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
	}
}

// Delay returns the wait before reconnect attempt n (1-based).
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	if attempt <= 0 || p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return d
}

// Validate reports configuration mistakes.
func (p ReconnectPolicy) Validate() error {
	switch p.Mode {
	case ReconnectAlways, ReconnectNever:
	default:
		return fmt.Errorf("unknown reconnect mode %q", p.Mode)
	}
	if p.BaseDelay < 0 || p.MaxDelay < 0 {
		return fmt.Errorf("reconnect delays must not be negative")
	}
	if p.MaxDelay > 0 && p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("reconnect max_delay %v is below base_delay %v", p.MaxDelay, p.BaseDelay)
	}
	return nil
}

// Retention bounds the event list. MaxEvents == 0 keeps everything.
type Retention struct {
	MaxEvents int
}

// EndpointFor derives the stream address for target under base.
func EndpointFor(base, target string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(target)
}
