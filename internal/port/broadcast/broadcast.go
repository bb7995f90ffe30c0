// Package broadcast defines the client-notification port (interface).
package broadcast

// Event is one pushed notification.
type Event struct {
	Type    string `json:"type"` // e.g. "session.updated", "agent.reply"
	Payload any    `json:"payload,omitempty"`
}

// Broadcaster pushes events to a user's connected clients. Implementations
// must never block the caller on slow clients.
type Broadcaster interface {
	Broadcast(userID string, ev Event)
}
