package lifecycle

import (
	"sync"
	"time"
)

// MemoryPublisher records events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{notify: make(chan struct{}, 1)}
}

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// WaitFor blocks until at least n events were published or the timeout
// elapses, and returns the events seen.
func (p *MemoryPublisher) WaitFor(n int, timeout time.Duration) []Event {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if evts := p.Events(); len(evts) >= n {
			return evts
		}
		select {
		case <-p.notify:
		case <-deadline.C:
			return p.Events()
		}
	}
}
