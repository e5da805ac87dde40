package http

import (
	"sync"

	"live-quiz-service/internal/domain"
)

// DefaultSendBuffer is the per-connection outbound queue length.
const DefaultSendBuffer = 32

// Hub maps connection ids to their outbound queues. It implements app.Notifier.
type Hub struct {
	bufSize int

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	mu         sync.Mutex
	send       chan domain.Event
	closed     bool
	overflowed bool
}

func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = DefaultSendBuffer
	}
	return &Hub{
		bufSize: bufSize,
		clients: make(map[string]*client),
	}
}

// Send queues event for connID without blocking. Unknown connections are skipped.
func (h *Hub) Send(connID string, event domain.Event) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.push(event)
}

func (h *Hub) register(connID string) <-chan domain.Event {
	c := &client{send: make(chan domain.Event, h.bufSize)}
	h.mu.Lock()
	h.clients[connID] = c
	h.mu.Unlock()
	return c.send
}

func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	delete(h.clients, connID)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// overflowed reports whether connID was cut off for falling too far behind.
func (h *Hub) overflowed(connID string) bool {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overflowed
}

// Connections returns the number of registered connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// push queues event without blocking. When the queue is full, a snapshot event
// (roster or leaderboard) is skipped since the next one supersedes it; any other
// event overflows the client, closing its queue so the gateway drops the socket.
func (c *client) push(event domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- event:
		return
	default:
	}
	if replaceable(event.Type) {
		return
	}
	c.overflowed = true
	c.closed = true
	close(c.send)
}

func replaceable(eventType string) bool {
	return eventType == domain.EventRosterUpdated || eventType == domain.EventLeaderboard
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
