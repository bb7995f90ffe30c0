// Package ws provides a websocket hub that pushes session events to
// connected clients of the same user.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/stridehq/stride/internal/port/broadcast"
)

const writeTimeout = 5 * time.Second

// Hub tracks websocket connections grouped by user id.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]struct{} // userID -> connections
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]struct{})}
}

// Serve upgrades the request and keeps the connection registered for the user
// until the client disconnects. The connection is read-drained; clients only
// receive events.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}

	h.add(userID, conn)
	defer h.remove(userID, conn)

	// Block until the client goes away; inbound messages are discarded.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}

// Broadcast pushes an event to every connection of the given user. Slow or
// broken connections are dropped rather than blocking the caller.
func (h *Hub) Broadcast(userID string, ev broadcast.Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := wsjson.Write(ctx, c, ev)
		cancel()
		if err != nil {
			slog.Debug("websocket write failed, dropping connection", "user_id", userID, "error", err)
			h.remove(userID, c)
			_ = c.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

func (h *Hub) add(userID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][c] = struct{}{}
}

func (h *Hub) remove(userID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], c)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}
