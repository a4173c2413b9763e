// Package client provides the WebSocket and HTTP clients for the CMS backend.
package client

import "net/http"

// Session holds the credentials of the signed-in admin. It is passed
// explicitly to every client that talks to the backend.
type Session struct {
	Token string
}

// NewSession returns a session for token. An empty token means anonymous.
func NewSession(token string) *Session {
	return &Session{Token: token}
}

// Authorize adds the bearer token to h. It is a no-op for a nil or
// anonymous session.
func (s *Session) Authorize(h http.Header) {
	if s == nil || s.Token == "" {
		return
	}
	h.Set("Authorization", "Bearer "+s.Token)
}
