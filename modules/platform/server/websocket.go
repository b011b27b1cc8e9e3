package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jskopek/shellviz/modules/core/broadcast"
	"github.com/jskopek/shellviz/modules/core/entries"
	"github.com/jskopek/shellviz/modules/platform/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The viewer may be served from another origin/port.
		return true
	},
}

// Client represents one connected viewer.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub manages all viewer connections. It subscribes to the broadcast
// bus and copies every published entry into each viewer's send buffer;
// per-viewer write pumps drain the buffers in publish order.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	bus        *broadcast.Bus
	subID      string
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a hub subscribed to bus. Run must be started for
// connection registration to work.
func NewHub(bus *broadcast.Bus) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
		done:       make(chan struct{}),
	}
	h.subID = bus.Subscribe(func(entry entries.Entry) {
		data, err := json.Marshal(entry)
		if err != nil {
			return
		}
		h.broadcast(data)
	})
	return h
}

// Run processes viewer registration until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			logger.Debug("viewer connected: %s", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				logger.Debug("viewer disconnected: %s", client.id)
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// Close stops the hub and disconnects all viewers.
func (h *Hub) Close() {
	h.bus.Unsubscribe(h.subID)
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.send)
		client.conn.Close()
		delete(h.clients, id)
	}
}

// broadcast queues data for every connected viewer. A viewer whose
// buffer is full is skipped: delivery is best-effort and a stalled
// viewer must not hold up the store.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WaitIdle blocks until every viewer's send buffer has drained, the
// timeout expires, or ctx is cancelled.
func (h *Hub) WaitIdle(ctx context.Context, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if h.idle() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (h *Hub) idle() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}
	return true
}

// ServeWS upgrades an HTTP connection and registers the viewer. The
// server does not replay history here; viewers fetch /api/entries
// first and then receive deltas.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade error: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// writePump pumps queued entries to the viewer connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes the viewer connection until it closes, then
// unregisters the viewer. Incoming messages are ignored: the push
// channel is one-way.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("websocket error: %v", err)
			}
			break
		}
	}
}
