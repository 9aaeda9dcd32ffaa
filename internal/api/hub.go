/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time feed of the simulation.

    It maintains a registry of all connected viewers and manages the
    broadcast channel. The orchestrator's tick hook pushes one snapshot
    envelope per tick into 'Broadcast'; the Hub fans it out to the socket
    of every connected viewer.

    Architecture:
    - Hub: the singleton manager.
    - Client: one viewer connection.
    - ServeWs: the HTTP handler that upgrades a GET to a WebSocket.

    Viewers are read-only: control goes through the REST surface, so
    inbound socket messages are discarded.
*/

package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Envelope is the standard JSON wrapper for all real-time messages.
type Envelope struct {
	Type    string      `json:"type"`    // Event type (e.g., "tick_snapshot")
	Payload interface{} `json:"payload"` // The actual data
}

// Client represents a single connected viewer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts snapshots.
type Hub struct {
	log *zap.Logger

	// Registered clients map.
	clients map[*Client]bool

	// Broadcast receives marshalled envelopes from the tick hook.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub. Run it once as a goroutine.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		Broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the Hub's event loop. It blocks until the context given to the
// surrounding server ends the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("viewer connected", zap.Int("viewers", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the viewer hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// upgrader configures the WebSocket handshake. CheckOrigin is permissive
// so local frontends can connect across ports.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a persistent viewer connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	// One slow viewer must not block the server: each client gets its own
	// pumps.
	go client.writePump()
	go client.readPump()
}

// readPump drains (and discards) inbound messages until the socket dies,
// then unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("viewer socket error", zap.Error(err))
			}
			break
		}
	}
}

// writePump pumps broadcast messages to the viewer's socket.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
}
