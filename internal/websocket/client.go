// internal/websocket/client.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Must be less than pongWait.
	maxMessageSize = 512

	// Outbound queue length per client. A client that falls this far
	// behind starts losing events.
	sendBufferSize = 256
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	log  *zap.Logger
}

// NewClient wraps an upgraded connection. The caller must start
// ReadPump and WritePump and register the client with the hub.
func NewClient(hub *Hub, conn *websocket.Conn, log *zap.Logger) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
		log:  log,
	}
}

// inboundMessage is what clients send us: subscription control only.
type inboundMessage struct {
	Type     string `json:"type"` // subscribe_device | unsubscribe_device
	DeviceID string `json:"device_id"`
}

// ReadPump pumps subscription messages from the connection to the hub.
// On any read error the client is unregistered and the connection
// closed, which tears down every subscription it held.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warn("ignoring malformed client message",
				zap.String("client_id", c.ID), zap.Error(err))
			continue
		}

		switch msg.Type {
		case "subscribe_device":
			if msg.DeviceID != "" {
				c.Hub.Subscribe(c, msg.DeviceID)
			}
		case "unsubscribe_device":
			if msg.DeviceID != "" {
				c.Hub.Unsubscribe(c, msg.DeviceID)
			}
		default:
			c.log.Debug("ignoring unknown client message type",
				zap.String("client_id", c.ID), zap.String("type", msg.Type))
		}
	}
}

// WritePump pumps messages from the send queue to the connection and
// keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the queue.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn("websocket write error", zap.String("client_id", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
