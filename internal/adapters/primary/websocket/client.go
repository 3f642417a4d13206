package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client message types.
const (
	MessageSubscribe   = "SUBSCRIBE"
	MessageUnsubscribe = "UNSUBSCRIBE"
	MessagePing        = "PING"
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan domain.Event

	// ID identifies the connection in logs.
	ID string

	// subscriptions holds the variant rooms the client joined.
	subscriptions map[string]bool

	// closeOnce ensures the Send channel is only closed once
	closeOnce sync.Once

	// closed is set once Send has been closed
	closed bool

	// mu protects subscriptions and closed
	mu sync.RWMutex

	logger *slog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		Hub:           hub,
		Conn:          conn,
		Send:          make(chan domain.Event, 256),
		ID:            id,
		subscriptions: make(map[string]bool),
		logger:        logger.With("client_id", id),
	}
}

// Subscribe joins a variant room. Unknown variants are ignored.
func (c *Client) Subscribe(variant string) bool {
	return c.Hub.subscribe(c, variant)
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.Send)
	})
}

// IsClosed reports whether the hub has dropped the client.
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// AddSubscription records a room membership
func (c *Client) AddSubscription(variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[variant] = true
}

// RemoveSubscription forgets a room membership
func (c *Client) RemoveSubscription(variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, variant)
}

// HasSubscription checks if the client is in a variant's room
func (c *Client) HasSubscription(variant string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscriptions[variant]
}

// GetSubscriptions returns a copy of all subscriptions
func (c *Client) GetSubscriptions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subs := make([]string, 0, len(c.subscriptions))
	for variant := range c.subscriptions {
		subs = append(subs, variant)
	}
	return subs
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.leave(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (c *Client) writeJSON(event domain.Event) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string `json:"type"`
	Variant string `json:"variant,omitempty"`
}

func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case MessageSubscribe:
		if !c.Subscribe(msg.Variant) {
			c.logger.Warn("subscribe rejected", "variant", msg.Variant)
		}

	case MessageUnsubscribe:
		c.Hub.unsubscribe(c, msg.Variant)

	case MessagePing:
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) sendPong() {
	defer func() {
		// Send is closed once the hub drops the client
		_ = recover()
	}()
	select {
	case c.Send <- domain.Event{Type: domain.EventPong, CreatedAt: time.Now().UTC()}:
	default:
	}
}
