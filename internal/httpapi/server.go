package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"instanced/internal/hub"
	"instanced/pkg/types"
)

// Service defines the lifecycle operations required by the HTTP API layer.
type Service interface {
	List() []types.Instance
	Create() (string, error)
	Toggle(id string) error
	Delete(id string) error
	Ready() bool
}

// Broadcaster is the subscriber side of the event hub.
type Broadcaster interface {
	Subscribe() *hub.Subscription
	Unsubscribe(*hub.Subscription)
	Relay(raw []byte)
}

func NewMux(svc Service, events Broadcaster) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc, events: events}

	r.Route("/instances", func(r chi.Router) {
		r.Get("/", h.listInstances)
		r.Post("/", h.createInstance)
		r.Patch("/{id}", h.toggleInstance)
		r.Delete("/{id}", h.deleteInstance)
	})

	r.Get("/ws", h.serveWS)
	r.Get("/events", h.serveSSE)
	// The event stream is also reachable at the root for WebSocket clients
	// that connect to the bare host.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if isWebSocketUpgrade(r) {
			h.serveWS(w, r)
			return
		}
		http.NotFound(w, r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("shutting down"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

type handlers struct {
	svc    Service
	events Broadcaster
}

// listInstances godoc
// @Summary      List instances
// @Description  Current snapshot of all instances in creation order.
// @Tags         instances
// @Produce      json
// @Success      200  {array}   types.Instance
// @Router       /instances [get]
func (h *handlers) listInstances(w http.ResponseWriter, r *http.Request) {
	insts := h.svc.List()
	if insts == nil {
		insts = []types.Instance{}
	}
	writeJSON(w, http.StatusOK, insts)
}

// createInstance godoc
// @Summary      Create an instance
// @Description  Accepts a create command. The instance appears after a delay; completion is reported on the event stream.
// @Tags         instances
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /instances [post]
func (h *handlers) createInstance(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Create()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	logRequest(r, LevelDebug).Str("instance_id", id).Msg("create accepted")
	writeJSON(w, http.StatusOK, types.StatusOK)
}

// toggleInstance godoc
// @Summary      Toggle an instance
// @Description  Accepts a start/stop flip. Unknown ids are accepted and silently ignored at commit.
// @Tags         instances
// @Produce      json
// @Param        id   path      string  true  "Instance ID"
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /instances/{id} [patch]
func (h *handlers) toggleInstance(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Toggle(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.StatusOK)
}

// deleteInstance godoc
// @Summary      Delete an instance
// @Description  Accepts a removal. Responds ok whether or not the id exists.
// @Tags         instances
// @Produce      json
// @Param        id   path      string  true  "Instance ID"
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /instances/{id} [delete]
func (h *handlers) deleteInstance(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger().Error().Err(err).Msg("encode response")
	}
}

// writeServiceError maps scheduler errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var he HTTPError
	if errors.As(err, &he) {
		writeJSONError(w, he.StatusCode(), he.Error())
		return
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}
