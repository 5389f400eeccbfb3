package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Outbound message types.
const (
	TypeFrame      = "frame"
	TypePopup      = "popup"
	TypeSceneEvent = "scene_event"
	TypeState      = "state"
	TypeError      = "error"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	sendBuffer   = 256
	readLimit    = 4096
	stateTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by middleware.WebSocketOriginCheck
	},
}

// StateFunc returns the current scene for a get_state request.
type StateFunc func(ctx context.Context) (interface{}, error)

// Client is one connected viewer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   string
	send chan []byte
}

// Hub maintains the set of connected viewers.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	state      StateFunc
	mu         sync.RWMutex
}

// NewHub creates a new Hub. state may be nil, in which case get_state is
// answered with an error message.
func NewHub(state StateFunc) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		state:      state,
	}
}

// Run registers and unregisters viewers until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Viewer %s connected (viewers=%d)", client.id, n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Viewer %s disconnected (viewers=%d)", client.id, n)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				client.conn.Close()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			log.Println("[WS] Hub stopped")
			return
		}
	}
}

// Broadcast sends a typed message to every viewer.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	payload, err := encode(msgType, data)
	if err != nil {
		log.Printf("[WS] Error marshaling %s message: %v", msgType, err)
		return
	}
	h.BroadcastRaw(payload)
}

// BroadcastRaw sends an already encoded message to every viewer. Viewers
// whose buffer is full miss the message.
func (h *Hub) BroadcastRaw(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- payload:
		default:
			log.Printf("[WS] Send buffer full for viewer %s, dropping message", client.id)
		}
	}
}

// ClientCount is the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message is the envelope of every inbound and outbound message.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(outbound{Type: msgType, Data: data})
}

// writePump writes messages to the WebSocket connection
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
				// Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for viewer %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for viewer %s: %v", c.id, err)
				return
			}
		}
	}
}

// readPump reads viewer requests until the connection drops.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for viewer %s: %v", c.id, err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "get_state":
		if c.hub.state == nil {
			c.sendError("State unavailable")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), stateTimeout)
		defer cancel()
		state, err := c.hub.state(ctx)
		if err != nil {
			log.Printf("[WS] get_state failed for viewer %s: %v", c.id, err)
			c.sendError("State unavailable")
			return
		}
		c.deliver(TypeState, state)

	default:
		c.sendError("Unknown message type")
	}
}

// deliver queues a message for this viewer only.
func (c *Client) deliver(msgType string, data interface{}) {
	payload, err := encode(msgType, data)
	if err != nil {
		log.Printf("[WS] Error marshaling %s message: %v", msgType, err)
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Printf("[WS] Dropped %s for viewer %s (buffer full)", msgType, c.id)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.deliver(TypeError, map[string]interface{}{"message": message})
}
