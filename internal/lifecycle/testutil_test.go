package lifecycle

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"instanced/internal/registry"
)

const testDelay = 20 * time.Millisecond

// newTestScheduler returns a scheduler with a short commit delay, its registry
// and an in-memory publisher. The scheduler is closed on test cleanup.
func newTestScheduler(t *testing.T) (*Scheduler, *registry.Registry, *MemoryPublisher) {
	t.Helper()
	reg := registry.New()
	pub := NewMemoryPublisher()
	var n atomic.Int64
	s := New(Config{
		Registry:    reg,
		Publisher:   pub,
		CommitDelay: testDelay,
		NewID:       func() string { return fmt.Sprintf("inst-%d", n.Add(1)) },
	})
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, reg, pub
}

// waitIdle blocks until no commands are pending.
func waitIdle(t *testing.T, s *Scheduler) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler still has %d pending commands", s.Pending())
		}
		time.Sleep(time.Millisecond)
	}
}

func eventsFor(evts []Event, id string) []Event {
	var out []Event
	for _, e := range evts {
		if e.ID == id {
			out = append(out, e)
		}
	}
	return out
}

func messages(evts []Event) []string {
	out := make([]string, len(evts))
	for i, e := range evts {
		out[i] = e.Message
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
