// Package notifications delivers realtime events to a user's open
// websocket connections. Delivery is best effort: slow consumers drop
// messages, and nothing is queued for offline users.
package notifications

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"

	"plusnine/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// A user may keep several tabs open; cap the fan-out per user.
	maxConnsPerUser = 8
	// Hard ceiling across all users for one instance.
	maxTotalConns = 8192
)

// Hub tracks the open connections per user and fans events out to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uint]map[*Client]struct{}
	total    int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[uint]map[*Client]struct{})}
}

// Name identifies this hub in logs and metrics.
func (h *Hub) Name() string { return "notifications" }

// Register attaches a connection for the given user. It fails when either
// the per-user or the instance-wide connection cap is reached.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.total >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	clients, ok := h.sessions[userID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.sessions[userID] = clients
	}
	if len(clients) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := newClient(h, conn, userID)
	clients[client] = struct{}{}
	h.total++
	observability.WebSocketConnectionsTotal.Inc()

	return client, nil
}

// UnregisterClient detaches a client. Safe to call more than once.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[client.UserID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	h.total--
	observability.WebSocketConnectionsTotal.Dec()
	if len(clients) == 0 {
		delete(h.sessions, client.UserID)
	}
}

// Broadcast sends a message to every connection the user has open here.
func (h *Hub) Broadcast(userID uint, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data := []byte(message)
	for client := range h.sessions[userID] {
		client.TrySend(data)
	}
}

// StartWiring subscribes the hub to the per-user Redis channels so events
// published by other instances reach connections held by this one.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		id, ok := strings.CutPrefix(channel, userChannelPrefix)
		if !ok {
			log.Printf("unexpected notification channel: %s", channel)
			return
		}
		userID, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			log.Printf("unexpected notification channel: %s", channel)
			return
		}
		h.Broadcast(uint(userID), payload)
	})
}

// Shutdown closes every connection with a going-away frame.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.sessions {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("close message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("close websocket for user %d: %v", userID, err)
			}
		}
	}
	h.sessions = make(map[uint]map[*Client]struct{})
	h.total = 0

	return nil
}
