package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"instanced/internal/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// All origins are permitted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// serveWS godoc
// @Summary      WebSocket event stream
// @Description  Pushes every lifecycle event as {type, id, msg, date}. Text messages sent by a client are relayed to all subscribers.
// @Tags         events
// @Success      101
// @Router       /ws [get]
func (h *handlers) serveWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so that any event published
	// after the client sees the 101 response reaches it.
	sub := h.events.Subscribe()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.events.Unsubscribe(sub)
		logRequest(r, LevelError).Err(err).Msg("websocket upgrade failed")
		return
	}
	streamConnections.WithLabelValues("websocket").Inc()
	defer streamConnections.WithLabelValues("websocket").Dec()
	logRequest(r, LevelInfo).Str("remote", r.RemoteAddr).Msg("subscriber connected")

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, sub, ctx.Done())
	}()
	readPump(conn, h.events)

	h.events.Unsubscribe(sub)
	<-done
	logRequest(r, LevelInfo).Str("remote", r.RemoteAddr).Msg("subscriber closed")
}

// readPump relays inbound messages until the connection fails or closes.
func readPump(conn *websocket.Conn, events Broadcaster) {
	conn.SetReadLimit(maxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger().Debug().Err(err).Msg("websocket read")
			}
			return
		}
		events.Relay(msg)
	}
}

// writePump forwards subscription messages to the connection. It closes the
// connection when the subscription ends, a write fails, or stop fires; the
// read side then fails and the handler unsubscribes.
func writePump(conn *websocket.Conn, sub *hub.Subscription, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}
