// Package registry holds the canonical in-memory set of instances.
//
// The registry only stores state. It never emits events; notification is the
// lifecycle scheduler's job, which keeps mutation and broadcast independently
// testable.
package registry

import (
	"sync"

	"instanced/pkg/types"
)

// State is the run state of an instance.
type State string

const (
	StateStopped State = "stopped"
	StateStarted State = "started"
)

// Flip returns the opposite state.
func (s State) Flip() State {
	if s == StateStopped {
		return StateStarted
	}
	return StateStopped
}

// Instance is a managed resource with a binary running/stopped state.
type Instance struct {
	ID    string
	State State
}

// Wire converts the instance to its JSON representation.
func (i Instance) Wire() types.Instance {
	return types.Instance{ID: i.ID, State: string(i.State)}
}

// Registry owns the instance collection. Ids are never reused: once an id has
// been created it stays retired after removal.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	items   map[string]*Instance
	retired map[string]struct{}
}

func New() *Registry {
	return &Registry{
		items:   make(map[string]*Instance),
		retired: make(map[string]struct{}),
	}
}

// List returns a snapshot of all instances in insertion order.
func (r *Registry) List() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Instance, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out
}

// Get returns a copy of the instance with the given id.
func (r *Registry) Get(id string) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.items[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// Len reports the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Create inserts a new stopped instance.
func (r *Registry) Create(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.retired[id]; ok {
		return duplicateIDError{id: id}
	}
	r.retired[id] = struct{}{}
	r.items[id] = &Instance{ID: id, State: StateStopped}
	r.order = append(r.order, id)
	return nil
}

// Toggle flips the state of an existing instance and returns the new state.
func (r *Registry) Toggle(id string) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.items[id]
	if !ok {
		return "", notFoundError{id: id}
	}
	inst.State = inst.State.Flip()
	return inst.State, nil
}

// Remove deletes the instance if present and reports whether it did.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
