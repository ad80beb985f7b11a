// Package websocket carries live monitoring traffic between the server and
// browsers. Clients subscribe to a group id ("room") and receive every
// status-update, processing-complete and error event broadcast for it.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Server-emitted event names.
const (
	EventConnected          = "connected"
	EventStatusUpdate       = "status-update"
	EventProcessingComplete = "processing-complete"
	EventError              = "error"
)

// Client-initiated event names.
const (
	eventMonitor     = "monitor"
	eventStopMonitor = "stop-monitor"
)

// Envelope is the wire format for every server-to-client message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type roomMessage struct {
	groupID string
	payload []byte
}

// Hub maintains the set of active clients and routes broadcasts into
// per-group rooms. Client registration flows through channels consumed by
// Run; room membership is mutex-guarded so joins are visible to broadcasts
// immediately.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage

	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	// OnMonitor runs after a client joins a room, with the client so the
	// current snapshot can be pushed to it directly. OnRoomEmpty runs when
	// the last subscriber of a group leaves. Both are wired by the API
	// server before Run starts.
	OnMonitor   func(c *Client, groupID string)
	OnRoomEmpty func(groupID string)
}

// NewHub creates a hub ready for Run.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run processes registration and broadcast traffic. Call it once, in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.groupID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer; drop the message rather than stall the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to every subscriber of a group.
func (h *Hub) Broadcast(groupID, event string, payload interface{}) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("Failed to marshal %s event for group %s: %v", event, groupID, err)
		return
	}
	h.broadcast <- roomMessage{groupID: strings.TrimSpace(groupID), payload: data}
}

// RoomSize reports how many clients are subscribed to a group.
func (h *Hub) RoomSize(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[strings.TrimSpace(groupID)])
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) join(c *Client, groupID string) {
	h.mu.Lock()
	room, ok := h.rooms[groupID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[groupID] = room
	}
	room[c] = true
	c.groups[groupID] = true
	h.mu.Unlock()
}

func (h *Hub) leave(c *Client, groupID string) {
	h.mu.Lock()
	emptied := h.dropFromRoom(c, groupID)
	h.mu.Unlock()
	if emptied && h.OnRoomEmpty != nil {
		h.OnRoomEmpty(groupID)
	}
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	var emptied []string
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		for groupID := range c.groups {
			if h.dropFromRoom(c, groupID) {
				emptied = append(emptied, groupID)
			}
		}
		close(c.send)
	}
	h.mu.Unlock()
	for _, groupID := range emptied {
		if h.OnRoomEmpty != nil {
			h.OnRoomEmpty(groupID)
		}
	}
}

// dropFromRoom removes a client from one room and reports whether the room
// became empty. Caller holds h.mu.
func (h *Hub) dropFromRoom(c *Client, groupID string) bool {
	room, ok := h.rooms[groupID]
	if !ok {
		return false
	}
	delete(room, c)
	delete(c.groups, groupID)
	if len(room) == 0 {
		delete(h.rooms, groupID)
		return true
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API already allows any origin; the monitor UI is served separately.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a websocket connection and starts the
// client's read and write pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	client := newClient(h, conn)
	h.register <- client

	go client.writePump()
	go client.readPump()

	client.SendEvent(EventConnected, map[string]string{"message": "Connected to SLTK Monitor"})
	log.Printf("Client connected: %s", client.ID)
}
