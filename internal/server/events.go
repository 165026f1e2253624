package server

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
)

// Event types sent on /api/events.
const (
	EventSnapshot = "snapshot"
	EventChange   = "change"
	EventNotice   = "notice"
)

// clientBuffer is how many events a slow client may fall behind before
// events are dropped for it.
const clientBuffer = 32

// Event is one message on the event stream.
type Event struct {
	Type     string          `json:"type"`
	Op       string          `json:"op,omitempty"`
	Revision uint64          `json:"revision,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`
	Notice   *edit.Notice    `json:"notice,omitempty"`
}

// Hub fans events out to connected clients. It implements [edit.Notifier]
// so notices reach the front end as toasts.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]chan Event
	closed  bool
	logger  *log.Logger
}

// NewHub returns an empty hub. Nil logger means log.Default().
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{clients: make(map[uuid.UUID]chan Event), logger: logger}
}

// Notify publishes n as a notice event.
func (h *Hub) Notify(n edit.Notice) {
	h.Publish(Event{Type: EventNotice, Op: n.Op, Notice: &n})
}

// Publish sends e to every client without blocking. Clients whose buffer
// is full miss the event.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		select {
		case ch <- e:
		default:
			h.logger.Warn("event dropped", "client", id, "type", e.Type)
		}
	}
}

// Subscribe registers a client. The channel is closed by cancel or by
// [Hub.Close].
func (h *Hub) Subscribe() (id uuid.UUID, events <-chan Event, cancel func()) {
	id = uuid.New()
	ch := make(chan Event, clientBuffer)
	h.mu.Lock()
	if h.closed {
		close(ch)
	} else {
		h.clients[id] = ch
	}
	h.mu.Unlock()
	return id, ch, func() { h.remove(id) }
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}
