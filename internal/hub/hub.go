package hub

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/parser"
)

const subscriberBuffer = 1024

// Hub broadcasts log events to every subscriber. It is a pipeline sink for
// the live stream, and can also be fed raw lines from a tailer.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan model.LogEvent
	nextID      int
	closed      bool
	dropped     atomic.Int64
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subscribers: make(map[int]chan model.LogEvent)}
}

// Subscribe returns a buffered channel that receives every broadcast event
// and a function that removes the subscription. The channel is closed when
// the subscription is removed or the hub closes.
func (h *Hub) Subscribe() (<-chan model.LogEvent, func()) {
	ch := make(chan model.LogEvent, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(c)
			}
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns the total number of events dropped due to slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Emit broadcasts an admitted pipeline event.
func (h *Hub) Emit(_ context.Context, ev model.LogEvent) error {
	h.broadcast(ev)
	return nil
}

// Start reads raw lines, parses them, and broadcasts the results.
// Blocks until the context is cancelled or the input channel is closed.
func (h *Hub) Start(ctx context.Context, input <-chan model.RawLine, p parser.Parser) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-input:
			if !ok {
				return
			}
			h.broadcast(p.Parse(raw.Text, raw.Source))
		}
	}
}

// Close closes every subscriber channel. Later events are discarded.
func (h *Hub) Close() error {
	h.closeAll()
	return nil
}

// broadcast sends an event to all subscribers.
// If a subscriber's channel is full, the event is dropped for that subscriber.
func (h *Hub) broadcast(ev model.LogEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			n := h.dropped.Add(1)
			if n == 1 || n%1000 == 0 {
				log.Printf("hub: dropped event for slow consumer (total dropped: %d)", n)
			}
		}
	}
}

// closeAll closes all subscriber channels.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}
