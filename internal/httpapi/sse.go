package httpapi

import (
	"bytes"
	"io"
	"net/http"
)

// serveSSE godoc
// @Summary      Server-Sent Events stream
// @Description  Same payloads as the WebSocket stream, framed as text/event-stream.
// @Tags         events
// @Produce      text/event-stream
// @Success      200
// @Router       /events [get]
func (h *handlers) serveSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	sub := h.events.Subscribe()
	defer h.events.Unsubscribe(sub)
	streamConnections.WithLabelValues("sse").Inc()
	defer streamConnections.WithLabelValues("sse").Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	// Open the stream so clients see headers before the first event.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			if err := writeSSEData(w, msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// writeSSEData frames msg as one event. Each line of a multi-line payload
// gets its own data field so clients rejoin it with newlines.
func writeSSEData(w io.Writer, msg []byte) error {
	msg = bytes.ReplaceAll(msg, []byte("\r\n"), []byte("\n"))
	msg = bytes.ReplaceAll(msg, []byte("\r"), []byte("\n"))
	var buf bytes.Buffer
	for _, line := range bytes.Split(msg, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
