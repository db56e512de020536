package server

import (
	"context"
	"encoding/json"

	"plusnine/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /Friend/Hub connections. Each connection is
// registered with the notification hub so friend events reach the user in
// real time. Delivery is best-effort: slow or closed connections drop
// messages instead of blocking publishers.
func (s *Server) WebsocketHandler() fiber.Handler {
	wsLogger := observability.NewWSLogger("notifications")

	return websocket.New(func(conn *websocket.Conn) {
		// One correlation ID per connection ties its log lines together.
		ctx := observability.WithCorrelationID(context.Background(), observability.GenerateCorrelationID())

		// userID was set by WebSocketAuthRequired during the upgrade.
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"notifications unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			wsLogger.LogError(ctx, userID, err, "register")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		wsLogger.LogConnect(ctx, userID)

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":    "connected",
			"payload": map[string]interface{}{"user_id": userID},
		})
		client.TrySend(welcome)
		wsLogger.LogEvent(ctx, userID, "connected")

		// Write pump in a goroutine; read pump blocks until disconnect.
		go client.WritePump()
		client.ReadPump()

		wsLogger.LogDisconnect(ctx, userID, "connection closed")
	})
}
