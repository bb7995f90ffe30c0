// Package http provides the HTTP surface of the Stride API.
package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/adapter/ws"
	"github.com/stridehq/stride/internal/middleware"
	"github.com/stridehq/stride/internal/port/eventbus"
	"github.com/stridehq/stride/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Auth       *service.AuthService
	Goals      *service.GoalService
	Milestones *service.MilestoneService
	Tasks      *service.TaskService
	Sessions   *service.SessionService
	Schedule   *service.ScheduleService
	Hub        *ws.Hub
	Bus        eventbus.Bus

	// Ready reports whether downstream dependencies answer; used by the
	// readiness probe.
	Ready func() error
}

// Health is a liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady is a readiness probe covering the database and event bus.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	code := http.StatusOK

	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if h.Bus != nil && !h.Bus.IsConnected() {
		status["status"] = "degraded"
		status["nats"] = "disconnected"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// ServeWS upgrades the request to a websocket subscribed to the caller's
// session events.
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authorization required", nil)
		return
	}
	h.Hub.Serve(w, r, u.ID)
}
