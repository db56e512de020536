package notifications

import (
	"log"
	"time"

	"plusnine/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Deadline for a single write to the peer.
	writeWait = 10 * time.Second
	// The peer must answer a ping within this window or the read fails.
	pongWait = 60 * time.Second
	// Ping interval. Must be shorter than pongWait.
	pingPeriod = 45 * time.Second
	// The feed is one-way; inbound frames are control traffic only.
	maxInboundSize = 512
	// Outbound buffer per connection before messages start dropping.
	sendBuffer = 256
)

// Client wraps one websocket connection registered with the hub.
type Client struct {
	hub    *Hub
	Conn   *websocket.Conn
	UserID uint
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:    hub,
		Conn:   conn,
		UserID: userID,
		send:   make(chan []byte, sendBuffer),
	}
}

// TrySend queues a message without blocking. When the buffer is full the
// message is dropped and a gap notice is offered so the frontend can
// re-fetch whatever it missed.
func (c *Client) TrySend(message []byte) {
	select {
	case c.send <- message:
		return
	default:
	}

	observability.WebSocketBackpressureDrops.WithLabelValues(c.hub.Name(), "full").Inc()
	log.Printf("user %d: send buffer full, dropped message", c.UserID)

	gapNotice := []byte(`{"type":"messages_dropped","payload":{"reason":"buffer_full"}}`)
	select {
	case c.send <- gapNotice:
	default:
		// The client cannot even take the notice; the read side will
		// eventually time out and tear the connection down.
	}
}

// ReadPump drains inbound frames to keep pong handling alive. It returns
// when the peer disconnects, unregistering the client on the way out.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxInboundSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("user %d: read error: %v", c.UserID, err)
			}
			return
		}
		// Inbound payloads are ignored; the feed only flows outward.
	}
}

// WritePump writes queued messages and periodic pings to the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
