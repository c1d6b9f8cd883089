package httpapi

// maxMessageBytes caps a single inbound WebSocket message.
var maxMessageBytes int64 = 64 << 10

// SetMaxMessageBytes configures the inbound WebSocket message limit.
// Non-positive values restore the 64 KiB default.
func SetMaxMessageBytes(n int64) {
	if n <= 0 {
		maxMessageBytes = 64 << 10
		return
	}
	maxMessageBytes = n
}

// CORS configuration. Enabled by default for all origins without credentials.
var (
	corsEnabled        = true
	corsAllowedOrigins = []string{"*"}
	corsAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
	corsAllowedHeaders = []string{"*"}
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty slices
// keep the current value for that field.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	if len(origins) > 0 {
		corsAllowedOrigins = append([]string(nil), origins...)
	}
	if len(methods) > 0 {
		corsAllowedMethods = append([]string(nil), methods...)
	}
	if len(headers) > 0 {
		corsAllowedHeaders = append([]string(nil), headers...)
	}
}
