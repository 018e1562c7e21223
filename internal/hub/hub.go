// Package hub fans accepted debate records out to WebSocket observers.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/xiaot623/debate/internal/domain"
)

// MessageTypeRecord tags stream messages that carry a history record.
const MessageTypeRecord = "record"

// StreamMessage is the JSON envelope written to observers.
type StreamMessage struct {
	Type   string               `json:"type"`
	Record domain.HistoryRecord `json:"record"`
}

// Connection represents a single WebSocket observer.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	mu   sync.Mutex
}

// Hub manages all observer connections.
type Hub struct {
	connections map[string]*Connection

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}

	logger *slog.Logger
	mu     sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		connections: make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan []byte, 256),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done. All remaining
// connections are closed on exit. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, conn := range h.connections {
				delete(h.connections, id)
				close(conn.Send)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			h.mu.Unlock()
			h.logger.Debug("observer connected", "connection_id", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				close(conn.Send)
			}
			h.mu.Unlock()
			h.logger.Debug("observer disconnected", "connection_id", conn.ID)

		case data := <-h.broadcast:
			h.mu.RLock()
			for id, conn := range h.connections {
				select {
				case conn.Send <- data:
				default:
					// Buffer full, drop the slow observer.
					h.logger.Warn("observer buffer full, closing", "connection_id", id)
					go h.Unregister(ctx, conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection wraps ws in a Connection. It is not registered yet.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, 256),
	}
}

// Register registers a connection with the hub. It returns without
// registering once the hub has stopped or ctx is done.
func (h *Hub) Register(ctx context.Context, conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	case <-ctx.Done():
	}
}

// Unregister unregisters a connection from the hub.
func (h *Hub) Unregister(ctx context.Context, conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	case <-ctx.Done():
	}
}

// Broadcast queues data for every connection. It never blocks; when the
// queue is full the message is dropped and ErrBufferFull returned.
func (h *Hub) Broadcast(data []byte) error {
	select {
	case h.broadcast <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// HandleRecord broadcasts rec to every observer.
func (h *Hub) HandleRecord(_ context.Context, rec domain.HistoryRecord) error {
	data, err := json.Marshal(StreamMessage{Type: MessageTypeRecord, Record: rec})
	if err != nil {
		return err
	}
	return h.Broadcast(data)
}

// GetConnectionCount returns the number of active connections.
func (h *Hub) GetConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// ErrBufferFull is returned when the broadcast queue is full.
var ErrBufferFull = &BufferFullError{}

// BufferFullError represents a buffer full error.
type BufferFullError struct{}

func (e *BufferFullError) Error() string {
	return "broadcast buffer full"
}
