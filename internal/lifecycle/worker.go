package lifecycle

import (
	"time"

	"instanced/internal/registry"
)

// enqueueLocked appends cmd to the commit timeline and wakes the worker.
// Caller must hold s.mu.
func (s *Scheduler) enqueueLocked(cmd command) {
	s.queue = append(s.queue, cmd)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the single commit worker. Every command carries the same delay, so
// popping in acceptance order and waiting for each due time commits in
// acceptance order across all ids.
func (s *Scheduler) run() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.ctx.Done():
				return
			}
		}
		cmd := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		timer := time.NewTimer(time.Until(cmd.due))
		select {
		case <-timer.C:
			if s.ctx.Err() != nil {
				s.abandon()
				return
			}
		case <-s.ctx.Done():
			timer.Stop()
			s.abandon()
			return
		}
		s.commit(cmd)

		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
		pendingCommands.Dec()
	}
}

// abandon drops the in-flight command and everything still queued.
func (s *Scheduler) abandon() {
	s.mu.Lock()
	n := 1 + len(s.queue)
	s.queue = nil
	s.pending -= n
	s.mu.Unlock()
	pendingCommands.Sub(float64(n))
}

// commit applies cmd to the registry and publishes its completed event.
func (s *Scheduler) commit(cmd command) {
	switch cmd.op {
	case opCreate:
		if err := s.reg.Create(cmd.id); err != nil {
			// Ids are generated fresh; a duplicate means the generator is broken.
			s.log.Error().Err(err).Str("id", cmd.id).Msg("create commit rejected")
			commitsTotal.WithLabelValues(string(cmd.op), "duplicate").Inc()
			return
		}
		s.complete(cmd.id, MsgCreated)
		commitsTotal.WithLabelValues(string(cmd.op), "ok").Inc()

	case opToggle:
		state, err := s.reg.Toggle(cmd.id)
		if err != nil {
			if registry.IsNotFound(err) {
				s.log.Debug().Str("id", cmd.id).Msg("toggle of unknown instance ignored")
				commitsTotal.WithLabelValues(string(cmd.op), "not_found").Inc()
				return
			}
			s.log.Error().Err(err).Str("id", cmd.id).Msg("toggle commit failed")
			commitsTotal.WithLabelValues(string(cmd.op), "error").Inc()
			return
		}
		s.complete(cmd.id, string(state))
		commitsTotal.WithLabelValues(string(cmd.op), "ok").Inc()

	case opDelete:
		result := "ok"
		if !s.reg.Remove(cmd.id) {
			result = "not_found"
		}
		s.complete(cmd.id, MsgDeleted)
		commitsTotal.WithLabelValues(string(cmd.op), result).Inc()
	}
}

func (s *Scheduler) complete(id, msg string) {
	s.pub.Publish(Event{Phase: PhaseCompleted, ID: id, Message: msg, Time: s.now()})
	s.log.Debug().Str("id", id).Str("msg", msg).Msg("command committed")
}
