package events

import (
	"sync"
	"time"

	"github.com/alfagnish/docai-api/internal/users"
	"github.com/google/uuid"
)

// Type names a registry mutation.
type Type string

const (
	UserCreated Type = "user.created"
	UserUpdated Type = "user.updated"
	UserDeleted Type = "user.deleted"
)

// DefaultBuffer is the per-subscriber queue length used when none is given.
const DefaultBuffer = 16

// Event describes one change to the user registry.
type Event struct {
	ID   string     `json:"id"`
	Type Type       `json:"type"`
	User users.User `json:"user"`
	At   time.Time  `json:"at"`
}

// NewEvent stamps a fresh id and the current UTC time.
func NewEvent(t Type, u users.User) Event {
	return Event{
		ID:   uuid.New().String(),
		Type: t,
		User: u,
		At:   time.Now().UTC(),
	}
}

// Hub fans events out to any number of subscribers. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	seq    uint64
	buffer int
}

// NewHub creates a hub whose subscribers each queue up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	h.seq++
	id := h.seq
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers e to every subscriber with room in its buffer.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
