package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"instanced/internal/registry"
)

// DefaultCommitDelay is the simulated provisioning latency between accepting
// a command and committing it.
const DefaultCommitDelay = time.Second

// Config encapsulates the tunables for Scheduler construction.
// Zero values are replaced by package defaults.
type Config struct {
	Registry    *registry.Registry
	Publisher   EventPublisher
	CommitDelay time.Duration
	Logger      *zerolog.Logger
	// NewID generates identifiers for Create. Defaults to random UUIDs.
	NewID func() string
	// Now stamps events. Commit timing always follows the real clock.
	// Defaults to time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Registry == nil {
		c.Registry = registry.New()
	}
	if c.Publisher == nil {
		c.Publisher = noopPublisher{}
	}
	if c.CommitDelay <= 0 {
		c.CommitDelay = DefaultCommitDelay
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
