// Package lifecycle turns instance commands into two-phase deferred
// operations. It is structured into small files by concern:
//
//   - scheduler.go: Scheduler type, constructor, Create/Toggle/Delete entry points.
//   - config.go: Config and package defaults; New applies defaults.
//   - worker.go: per-instance FIFO queue and the commit path.
//   - events.go: Event type and the EventPublisher interface.
//   - errors.go: error types and helpers (IsClosed).
//   - metrics.go: Prometheus collectors.
//
// Every command is accepted immediately, which publishes an "accepted" event,
// and committed to the registry after a fixed delay, which publishes a
// "completed" event. Commands targeting the same instance id are served by a
// single worker goroutine in acceptance order, so two commits for one id
// never race.
package lifecycle
