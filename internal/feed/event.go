// Package feed maintains one live comment stream per viewing session and the
// ordered list of comments received on it.
package feed

import (
	"encoding/json"
	"errors"
	"time"
)

// State is the connection state of a session.
type State int

const (
	Idle State = iota
	Connecting
	Open
	Closed
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Event is one comment delivered by the live stream. Field names on the wire
// follow the CMS backend.
type Event struct {
	RoomID            string    `json:"room_id"`
	MessageID         string    `json:"msg_id"`
	LiveOwnerID       string    `json:"from_live_of_tiktok_id"`
	SourceUserID      string    `json:"customer_user_id"`
	SourceHandle      string    `json:"customer_tiktok_id"`
	SourceDisplayName string    `json:"customer_name"`
	AvatarURL         string    `json:"profile_picture_url"`
	Text              string    `json:"comment"`
	CreatedAt         time.Time `json:"created_at"`

	// ReceivedAt is stamped locally when the frame arrives.
	ReceivedAt time.Time `json:"-"`
}

var errNotObject = errors.New("feed: frame is not a JSON object")

// Naive timestamps from the backend carry no zone and are read as UTC.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts any JSON object. Id fields may arrive as strings or
// numbers, created_at may be RFC3339, a naive ISO timestamp or null, and a
// field of any other shape is left empty. Only a frame that is not an object
// is an error.
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}

	*e = Event{
		RoomID:            looseString(fields["room_id"]),
		MessageID:         looseString(fields["msg_id"]),
		LiveOwnerID:       looseString(fields["from_live_of_tiktok_id"]),
		SourceUserID:      looseString(fields["customer_user_id"]),
		SourceHandle:      looseString(fields["customer_tiktok_id"]),
		SourceDisplayName: looseString(fields["customer_name"]),
		AvatarURL:         looseString(fields["profile_picture_url"]),
		Text:              looseString(fields["comment"]),
		CreatedAt:         looseTime(fields["created_at"]),
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func looseTime(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return time.Time{}
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Author returns the best display name for the comment author.
func (e Event) Author() string {
	if e.SourceDisplayName != "" {
		return e.SourceDisplayName
	}
	if e.SourceHandle != "" {
		return e.SourceHandle
	}
	return e.SourceUserID
}

// Session describes the controller's current attempt to watch a target.
type Session struct {
	ID        string
	Target    string
	Endpoint  string
	State     State
	Attempts  int
	LastErr   error
	StartedAt time.Time
}
