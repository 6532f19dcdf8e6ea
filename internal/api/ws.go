package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hollybrook/fairway/internal/sim"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPollInterval = 500 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browser clients connect cross-origin from the dashboard.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// eventHub fans simulation notifications out to websocket subscribers.
// It polls the notification list between ticks and forwards anything a
// subscriber has not seen yet.
type eventHub struct {
	sim *sim.Simulation

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	lastSeq int64
}

func newEventHub(s *sim.Simulation) *eventHub {
	return &eventHub{
		sim:     s,
		clients: make(map[*websocket.Conn]bool),
	}
}

// run polls for fresh notifications and broadcasts them. Slow or dead
// subscribers are dropped rather than back-pressuring the loop.
func (h *eventHub) run() {
	ticker := time.NewTicker(wsPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		fresh := h.collect()
		if len(fresh) == 0 {
			continue
		}
		h.broadcast(fresh)
	}
}

func (h *eventHub) collect() []sim.Notification {
	var fresh []sim.Notification
	h.sim.Inspect(func(v *sim.Simulation) {
		for _, n := range v.Notifications {
			if n.Seq > h.lastSeq {
				fresh = append(fresh, n)
			}
		}
	})
	if len(fresh) > 0 {
		h.lastSeq = fresh[len(fresh)-1].Seq
	}
	return fresh
}

func (h *eventHub) broadcast(events []sim.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(events); err != nil {
			slog.Debug("dropping websocket subscriber", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// handleWS upgrades the connection and registers the subscriber. The
// read loop exists only to notice the peer going away.
func (h *eventHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
