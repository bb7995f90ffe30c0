// Package session defines the planning-session domain model: the mutable
// session state, its append-only chat transcript, and goal preview drafts.
package session

import (
	"encoding/json"
	"time"

	"github.com/stridehq/stride/internal/domain"
)

// State represents the agent-driven lifecycle state of a session.
type State string

const (
	// StatePlanGenerated is the initial state after the agent proposes a plan.
	StatePlanGenerated State = "plan_generated"
	// StatePlanIteration marks a session whose plan is being revised.
	StatePlanIteration State = "plan_iteration"
	// StateFinalized is terminal: the session can never become active again.
	StateFinalized State = "finalized"
)

// ValidStates is the set of all valid session states.
var ValidStates = map[State]bool{
	StatePlanGenerated: true,
	StatePlanIteration: true,
	StateFinalized:     true,
}

// Session tracks one ongoing planning conversation between a user and the
// agent. At most one session per user is "latest active"; when several are
// active the most recently updated one wins.
type Session struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	ChatID        string         `json:"chatId"`
	State         State          `json:"state"`
	Iteration     int            `json:"iteration"`
	GoalPreviewID string         `json:"goalPreviewId,omitempty"`
	Active        bool           `json:"sessionActive"`
	Context       map[string]any `json:"context,omitempty"`
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Chat is the transcript container created 1:1 with a session.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is one immutable record in a session's transcript. Messages are
// never mutated, deleted, or reordered; createdAt ascending is the record of
// the conversation.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SessionID string    `json:"sessionId"`
	Sender    Sender    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preview is a draft structured goal plan awaiting user approval. Data is
// opaque plan JSON produced by the agent and passed through unvalidated.
type Preview struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MessageRequest is the body of POST /v1/agent/goal/session:message.
type MessageRequest struct {
	SessionID string         `json:"sessionId"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}

// Validate checks that the MessageRequest has all required fields.
func (r *MessageRequest) Validate() error {
	if r.SessionID == "" {
		return domain.Validationf("sessionId is required")
	}
	if r.Message == "" {
		return domain.Validationf("message is required")
	}
	return nil
}
