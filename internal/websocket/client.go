package websocket

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// clientMessage is what browsers send: a subscribe or unsubscribe request
// for one group.
type clientMessage struct {
	Event   string `json:"event"`
	GroupID string `json:"groupId"`
}

// Client is a single websocket connection. Messages are queued on send and
// written by writePump; readPump handles monitor/stop-monitor requests.
type Client struct {
	ID     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	groups map[string]bool // rooms joined; guarded by hub.mu
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		groups: make(map[string]bool),
	}
}

// SendEvent queues one event for this client only.
func (c *Client) SendEvent(event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("Failed to marshal %s event for client %s: %v", event, c.ID, err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		log.Printf("Client disconnected: %s", c.ID)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Websocket read error for client %s: %v", c.ID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.SendEvent(EventError, map[string]string{"message": "Invalid message format"})
			continue
		}
		groupID := strings.TrimSpace(msg.GroupID)
		if groupID == "" {
			c.SendEvent(EventError, map[string]string{"message": "Missing groupId"})
			continue
		}

		switch msg.Event {
		case eventMonitor:
			log.Printf("Client %s requested monitoring for group %s", c.ID, groupID)
			c.hub.join(c, groupID)
			if c.hub.OnMonitor != nil {
				c.hub.OnMonitor(c, groupID)
			}
		case eventStopMonitor:
			log.Printf("Client %s stopped monitoring group %s", c.ID, groupID)
			c.hub.leave(c, groupID)
		default:
			c.SendEvent(EventError, map[string]string{"message": "Unknown event: " + msg.Event})
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
