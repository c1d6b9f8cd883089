package types

// StatusOK is the body returned by every accepted write command.
var StatusOK = StatusResponse{Status: "ok"}

// StatusResponse acknowledges that a command was accepted. It says nothing
// about completion; completion is only observable on the event stream.
type StatusResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: scheduler closed
	Error string `json:"error" example:"scheduler closed"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}
