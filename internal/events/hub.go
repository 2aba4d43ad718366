package events

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

// Hub fans events out to subscribers. A subscriber that falls behind loses
// events rather than blocking the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{}), now: time.Now}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; !ok {
		return
	}
	delete(h.clients, ch)
	close(ch)
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish returns how many subscribers received the event.
func (h *Hub) Publish(evt string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	sent := 0
	for ch := range h.clients {
		select {
		case ch <- evt:
			sent++
		default:
		}
	}
	return sent
}

// Emit encodes and publishes in one step.
func (h *Hub) Emit(reqID, typ string, data any) int {
	return h.Publish(Encode(h.now(), reqID, typ, data))
}
