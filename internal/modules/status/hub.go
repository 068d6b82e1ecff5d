package status

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 16
)

// connection is one websocket client following one booking.
type connection struct {
	bookingID string
	conn      *websocket.Conn
	send      chan []byte

	mu     sync.Mutex
	closed bool
}

func newConnection(conn *websocket.Conn, bookingID string) *connection {
	return &connection{bookingID: bookingID, conn: conn, send: make(chan []byte, sendBuffer)}
}

// push queues an event. It drops the event when the client is too slow and
// is a no-op after the connection was unregistered.
func (c *connection) push(event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *connection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub tracks open status connections so they can be counted and closed on shutdown.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{connections: make(map[*connection]struct{})}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	delete(h.connections, c)
	h.mu.Unlock()
	c.closeSend()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// CountFor returns the number of clients following bookingID.
func (h *Hub) CountFor(bookingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.connections {
		if c.bookingID == bookingID {
			n++
		}
	}
	return n
}

// Close disconnects every client. Their read pumps then unwind normally.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		_ = c.conn.Close()
	}
}

// serve registers c and runs its pumps. It blocks until the client goes away.
func (h *Hub) serve(c *connection) {
	h.register(c)
	go h.writePump(c)
	h.readPump(c)
}

// readPump only services control frames; clients have nothing to say.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
