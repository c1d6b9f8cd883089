// Package hub fans out serialized lifecycle events to live subscribers.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"instanced/internal/lifecycle"
)

// DefaultBufferSize is the per-subscription outbound buffer.
const DefaultBufferSize = 64

// Subscription is one live observer. Messages are delivered on C until the
// subscription is removed from the hub, at which point C is closed.
type Subscription struct {
	ch   chan []byte
	open bool // guarded by Hub.mu
}

// C returns the channel of serialized messages for this subscriber.
func (s *Subscription) C() <-chan []byte { return s.ch }

// Config configures a Hub. Zero values are replaced by defaults.
type Config struct {
	BufferSize int
	Logger     *zerolog.Logger
}

// Hub keeps the set of open subscriptions and broadcasts to them. Sends never
// block: a subscriber whose buffer is full misses that message and nobody
// else is delayed.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	bufSize int
	closed  bool

	log *zerolog.Logger
}

func New(cfg Config) *Hub {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	return &Hub{
		subs:    make(map[*Subscription]struct{}),
		bufSize: cfg.BufferSize,
		log:     cfg.Logger,
	}
}

// Subscribe registers a new open subscription. It receives every message
// broadcast after this call returns. On a closed hub the returned
// subscription is already closed.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{ch: make(chan []byte, h.bufSize)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	sub.open = true
	h.subs[sub] = struct{}{}
	subscribersGauge.Inc()
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call repeatedly.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	sub.open = false
	delete(h.subs, sub)
	close(sub.ch)
	subscribersGauge.Dec()
}

// Len reports the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish serializes a lifecycle event and broadcasts it. It satisfies
// lifecycle.EventPublisher.
func (h *Hub) Publish(e lifecycle.Event) {
	b, err := json.Marshal(e.Wire())
	if err != nil {
		h.log.Error().Err(err).Str("id", e.ID).Msg("encode event")
		return
	}
	publishedTotal.WithLabelValues("lifecycle").Inc()
	h.broadcast(b)
}

// Relay broadcasts a raw inbound subscriber message verbatim.
func (h *Hub) Relay(raw []byte) {
	b := append([]byte(nil), raw...)
	publishedTotal.WithLabelValues("relay").Inc()
	h.broadcast(b)
}

// broadcast holds the lock for the whole fan-out so every subscriber observes
// the same global order.
func (h *Hub) broadcast(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if !sub.open {
			continue
		}
		select {
		case sub.ch <- b:
		default:
			droppedTotal.Inc()
			h.log.Debug().Int("buffer", h.bufSize).Msg("subscriber buffer full, message dropped")
		}
	}
}

// Close unsubscribes everyone and refuses new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		h.removeLocked(sub)
	}
}
