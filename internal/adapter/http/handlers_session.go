package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/domain/session"
	"github.com/stridehq/stride/internal/middleware"
	"github.com/stridehq/stride/internal/port/planner"
)

// messageResponse is the wire shape of a conversational turn.
type messageResponse struct {
	SessionID string         `json:"sessionId"`
	Reply     string         `json:"reply"`
	Action    planner.Action `json:"action"`
	State     stateResponse  `json:"state"`
	Context   map[string]any `json:"context,omitempty"`
}

type stateResponse struct {
	State         session.State `json:"state"`
	Iteration     int           `json:"iteration"`
	SessionActive bool          `json:"sessionActive"`
	GoalPreviewID string        `json:"goalPreviewId,omitempty"`
}

// SendSessionMessage handles one conversational turn against the planning
// agent.
func (h *Handlers) SendSessionMessage(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[session.MessageRequest](w, r)
	if !ok {
		return
	}

	result, err := h.Sessions.HandleMessage(r.Context(), u, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess := result.Session
	writeJSON(w, http.StatusOK, messageResponse{
		SessionID: sess.ID,
		Reply:     result.Reply,
		Action:    result.Action,
		State: stateResponse{
			State:         sess.State,
			Iteration:     sess.Iteration,
			SessionActive: sess.Active,
			GoalPreviewID: sess.GoalPreviewID,
		},
		Context: sess.Context,
	})
}

// LatestSession returns the caller's latest active session, creating one with
// fresh scheduling context when none exists.
func (h *Handlers) LatestSession(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	sess, err := h.Sessions.LatestActive(r.Context(), u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// GetTranscript returns a session's chat messages in conversation order.
func (h *Handlers) GetTranscript(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	messages, err := h.Sessions.Transcript(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// ListPreviews returns the caller's goal previews, newest first.
func (h *Handlers) ListPreviews(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	previews, err := h.Sessions.ListPreviews(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previews)
}

// GetPreview returns one goal preview by id.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	p, err := h.Sessions.GetPreview(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetScheduleContext returns the caller's current scheduling context.
func (h *Handlers) GetScheduleContext(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	sc, err := h.Schedule.Context(r.Context(), u)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}
