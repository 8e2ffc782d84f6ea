package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageType tags a websocket frame.
type MessageType string

const (
	TypeToast   MessageType = "toast"
	TypeChanged MessageType = "changed"
)

// Message is the JSON frame sent to websocket clients.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Hub broadcasts toasts and change events to websocket clients.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a Hub. Call Run to start delivering.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	pongWait := 60 * time.Second
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		writeWait:  10 * time.Second,
		pongWait:   pongWait,
		pingPeriod: pongWait * 9 / 10,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

// Run owns client registration and fan-out until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", "client_id", c.id)

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for _, c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.logger.Warn("websocket client send buffer full, closing", "client_id", c.id)
				h.remove(c)
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
		h.logger.Debug("websocket client unregistered", "client_id", c.id)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts a typed payload without blocking.
func (h *Hub) Publish(t MessageType, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encoding websocket payload", "type", t, "error", err)
		return
	}
	frame, err := json.Marshal(Message{Type: t, Timestamp: time.Now().UTC(), Payload: raw})
	if err != nil {
		h.logger.Error("encoding websocket message", "type", t, "error", err)
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping", "type", t)
	}
}

// Toast implements ToastSink.
func (h *Hub) Toast(t Toast) {
	h.Publish(TypeToast, t)
}

// ServeHTTP upgrades the request and attaches a client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
