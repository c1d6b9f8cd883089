package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"instanced/internal/registry"
	"instanced/pkg/types"
)

type op string

const (
	opCreate op = "create"
	opToggle op = "toggle"
	opDelete op = "delete"
)

func (o op) acceptedMessage() string {
	switch o {
	case opCreate:
		return MsgCreateReceived
	case opToggle:
		return MsgToggleReceived
	default:
		return MsgDeleteReceived
	}
}

// command is one accepted, not yet committed, lifecycle operation.
type command struct {
	op  op
	id  string
	due time.Time
}

// Scheduler accepts lifecycle commands and commits them after a fixed delay.
type Scheduler struct {
	reg   *registry.Registry
	pub   EventPublisher
	delay time.Duration
	log   *zerolog.Logger
	newID func() string
	now   func() time.Time

	mu      sync.Mutex
	queue   []command
	wake    chan struct{}
	pending int
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Scheduler from cfg, applying defaults for unset fields.
func New(cfg Config) *Scheduler {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		reg:    cfg.Registry,
		pub:    cfg.Publisher,
		delay:  cfg.CommitDelay,
		log:    cfg.Logger,
		newID:  cfg.NewID,
		now:    cfg.Now,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Create accepts a create command and returns the id the instance will have
// once committed.
func (s *Scheduler) Create() (string, error) {
	id := s.newID()
	if err := s.submit(opCreate, id); err != nil {
		return "", err
	}
	return id, nil
}

// Toggle accepts a state flip for id. Unknown ids are accepted too; their
// commit is a silent no-op.
func (s *Scheduler) Toggle(id string) error { return s.submit(opToggle, id) }

// Delete accepts a removal of id. The completed event is emitted whether or
// not the instance existed at commit time.
func (s *Scheduler) Delete(id string) error { return s.submit(opDelete, id) }

// List returns the current registry snapshot in wire form.
func (s *Scheduler) List() []types.Instance {
	insts := s.reg.List()
	out := make([]types.Instance, len(insts))
	for i, inst := range insts {
		out[i] = inst.Wire()
	}
	return out
}

// Ready reports whether the scheduler still accepts commands.
func (s *Scheduler) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Pending returns the number of accepted commands not yet committed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Close stops accepting commands and abandons pending commits. It waits for
// the commit worker to exit or for ctx to be done.
func (s *Scheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dropped := s.pending
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Msg("scheduler closed with pending commits")
	}
	return nil
}

// submit publishes the accepted event and enqueues the command under one
// lock, so accepted-event order equals commit order. The due time is taken
// from the monotonic clock; the injected Now only stamps events.
func (s *Scheduler) submit(o op, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	now := s.now()
	s.pub.Publish(Event{Phase: PhaseAccepted, ID: id, Message: o.acceptedMessage(), Time: now})
	s.enqueueLocked(command{op: o, id: id, due: time.Now().Add(s.delay)})
	s.pending++
	pendingCommands.Inc()
	commandsTotal.WithLabelValues(string(o)).Inc()
	s.log.Debug().Str("op", string(o)).Str("id", id).Msg("command accepted")
	return nil
}
