// Package eventbus defines the domain-event publishing port (interface).
package eventbus

import "context"

// Bus is the port interface for publishing domain events. Publishing is
// fire-and-forget from the caller's perspective: a failed publish must never
// fail the request that produced the event.
type Bus interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close shuts down the bus connection.
	Close() error

	// IsConnected reports whether the bus is currently connected.
	IsConnected() bool
}

// Subject constants for domain events.
const (
	SubjectGoalCreated    = "goals.created"
	SubjectGoalFinalized  = "goals.finalized"
	SubjectSessionUpdated = "sessions.updated"
)

// GoalCreatedPayload is the schema for goals.created events.
type GoalCreatedPayload struct {
	GoalID          string  `json:"goalId"`
	UserID          string  `json:"userId"`
	Title           string  `json:"title"`
	MinHoursPerWeek float64 `json:"minHoursPerWeek"`
}

// GoalFinalizedPayload is the schema for goals.finalized events, emitted when
// an agent session records a finalize action.
type GoalFinalizedPayload struct {
	SessionID     string `json:"sessionId"`
	UserID        string `json:"userId"`
	GoalPreviewID string `json:"goalPreviewId,omitempty"`
}

// SessionUpdatedPayload is the schema for sessions.updated events.
type SessionUpdatedPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	State     string `json:"state"`
	Iteration int    `json:"iteration"`
	Active    bool   `json:"sessionActive"`
}
