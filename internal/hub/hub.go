// Package hub fans live comments out to WebSocket subscribers grouped by
// target. It backs the feedmock development server.
package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
)

// ErrTooManyConnections is returned by AddClient when the hub is full.
var ErrTooManyConnections = errors.New("too many connections")

type client struct {
	conn   *websocket.Conn
	target string
	h      *Hub
	send   chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.h.RemoveClient(c)
			return
		}
	}
	// send was closed by the hub: say goodbye before dropping the socket.
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "room closed"),
		time.Now().Add(time.Second))
}

// Hub tracks subscribers per target.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]bool
	count    int
	maxConns int
}

// New creates a hub accepting at most maxConns subscribers (0 = unlimited).
func New(maxConns int) *Hub {
	return &Hub{
		rooms:    make(map[string]map[*client]bool),
		maxConns: maxConns,
	}
}

// AddClient subscribes conn to target and starts its write pump.
func (h *Hub) AddClient(target string, conn *websocket.Conn) (*client, error) {
	c := &client{
		conn:   conn,
		target: target,
		h:      h,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.maxConns > 0 && h.count >= h.maxConns {
		h.mu.Unlock()
		return nil, ErrTooManyConnections
	}
	room := h.rooms[target]
	if room == nil {
		room = make(map[*client]bool)
		h.rooms[target] = room
	}
	room[c] = true
	h.count++
	h.mu.Unlock()

	go c.writePump()
	return c, nil
}

// RemoveClient unsubscribes c. It is safe to call more than once.
func (h *Hub) RemoveClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	room := h.rooms[c.target]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.target)
	}
	h.count--
	close(c.send)
}

// Publish sends ev to every subscriber of target and returns how many
// subscribers it was queued for.
func (h *Hub) Publish(target string, ev feed.Event) int {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("hub marshal error: %v", err)
		return 0
	}
	return h.PublishRaw(target, data)
}

// PublishRaw sends an already encoded frame to every subscriber of target.
func (h *Hub) PublishRaw(target string, data []byte) int {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[target]))
	for c := range h.rooms[target] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		h.mu.Lock()
		if _, ok := h.rooms[target][c]; !ok {
			h.mu.Unlock()
			continue
		}
		select {
		case c.send <- data:
			sent++
		default:
			// Client can't keep up, disconnect it.
			log.Printf("ws client too slow on %q, disconnecting", target)
			h.removeLocked(c)
		}
		h.mu.Unlock()
	}
	return sent
}

// CloseRoom disconnects every subscriber of target.
func (h *Hub) CloseRoom(target string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.rooms[target] {
		h.removeLocked(c)
		n++
	}
	return n
}

// Targets returns the targets that currently have subscribers, sorted.
func (h *Hub) Targets() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.rooms))
	for t := range h.rooms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ClientCount returns the number of subscribers across all targets.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
