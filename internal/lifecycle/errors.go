package lifecycle

import (
	"errors"
	"net/http"
)

// closedError is returned for commands submitted after Close.
type closedError struct{}

func (closedError) Error() string { return "scheduler closed" }

// StatusCode maps a closed scheduler to 503 for HTTP callers.
func (closedError) StatusCode() int { return http.StatusServiceUnavailable }

// ErrClosed is returned by Create, Toggle and Delete once the scheduler is shutting down.
var ErrClosed error = closedError{}

// IsClosed reports whether err indicates the scheduler no longer accepts commands.
func IsClosed(err error) bool {
	var ce closedError
	return errors.As(err, &ce)
}
