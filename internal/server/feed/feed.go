// Package feed fans controller change events out to stream subscribers.
package feed

import (
	"sync"

	"github.com/Alia5/PADLINK/pad"
)

// Hub distributes events to any number of subscribers. Publish never
// blocks: a subscriber whose buffer is full loses the event, which a stream
// client recovers from on its next catch-up.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan pad.Event
	next int
}

func New() *Hub {
	return &Hub{subs: make(map[int]chan pad.Event)}
}

// Subscribe registers a new subscriber with the given channel buffer.
// The returned cancel func unregisters and closes the channel; it is safe
// to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan pad.Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan pad.Event, buffer)

	h.mu.Lock()
	id := h.next
	h.next++
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

// Publish delivers ev to every subscriber that has buffer room.
func (h *Hub) Publish(ev pad.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
