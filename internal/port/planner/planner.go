// Package planner defines the port to the external planning agent. The JSON
// field names and action-type vocabulary here are the hard compatibility
// boundary with the agent service and must not change.
package planner

import (
	"context"
	"encoding/json"
)

// ActionType is the vocabulary of actions the agent may request.
type ActionType string

const (
	// ActionSavePreview upserts a goal preview from the action payload.
	ActionSavePreview ActionType = "save_preview"
	// ActionFinalizeGoal closes the session; it can never become active again.
	ActionFinalizeGoal ActionType = "finalize_goal"
	// ActionNone requests no side effect.
	ActionNone ActionType = "none"
)

// Request is the payload sent to the agent for one conversational turn.
type Request struct {
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	State     StatePayload   `json:"state"`
}

// StatePayload carries session state across the agent boundary. Pointer
// fields distinguish "omitted" from zero values: omitted fields hold over
// from the prior session state (iteration defaults to previous+1).
type StatePayload struct {
	State         string  `json:"state,omitempty"`
	Iteration     *int    `json:"iteration,omitempty"`
	SessionActive *bool   `json:"sessionActive,omitempty"`
	GoalPreviewID *string `json:"goalPreviewId,omitempty"`
}

// Action is the agent's requested side effect with its opaque payload.
type Action struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the agent's reply for one turn.
type Response struct {
	Reply   string         `json:"reply"`
	Action  Action         `json:"action"`
	State   StatePayload   `json:"state"`
	Context map[string]any `json:"context,omitempty"`
}

// PreviewPayload is the lenient shape of a save_preview payload. When the
// nested goalPreview field is absent the whole payload is treated as the
// plan data; an id selects update-by-id over create.
type PreviewPayload struct {
	ID          string          `json:"id,omitempty"`
	GoalPreview json.RawMessage `json:"goalPreview,omitempty"`
}

// Runner is the capability interface to the external agent. Concrete
// implementations (HTTP-backed, rule-based test doubles) are injected behind
// it.
type Runner interface {
	Run(ctx context.Context, req Request) (*Response, error)
}
