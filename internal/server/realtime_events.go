package server

import (
	"context"
	"encoding/json"
	"log"

	"plusnine/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventFriendRequestReceived = "friend_request_received"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventFriendRequestRejected = "friend_request_rejected"
)

// userEvent is the envelope every realtime event is wrapped in.
type userEvent struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// publishUserEvent delivers an event to a user on a best-effort basis: local
// websocket connections get it directly, other instances via Redis. Failures
// are logged and never surfaced to the HTTP caller.
func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	raw, err := json.Marshal(userEvent{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}

	message := string(raw)
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
	observability.EventsPublished.WithLabelValues(eventType).Inc()
}
