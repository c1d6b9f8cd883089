package lifecycle

import (
	"time"

	"instanced/pkg/types"
)

// Phase distinguishes the two notifications a command produces.
type Phase string

const (
	PhaseAccepted  Phase = "accepted"
	PhaseCompleted Phase = "completed"
)

// Messages carried by accepted and completed events.
const (
	MsgCreateReceived = `Received "Create command"`
	MsgToggleReceived = `Received "Change State"`
	MsgDeleteReceived = `Received "Delete instance"`
	MsgCreated        = "Created"
	MsgDeleted        = "Deleted"
)

// Event is an immutable lifecycle notification. Events are never stored by
// the scheduler; they are handed to the publisher and forgotten.
type Event struct {
	Phase   Phase
	ID      string
	Message string
	Time    time.Time
}

// Wire converts the event to the JSON payload pushed to subscribers.
func (e Event) Wire() types.LogMessage {
	return types.LogMessage{
		Type: types.EventType,
		ID:   e.ID,
		Msg:  e.Message,
		Date: types.JSTime(e.Time),
	}
}

// EventPublisher receives events from the scheduler. Implementations must be
// non-blocking: Publish is called while the scheduler holds its accept lock.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
