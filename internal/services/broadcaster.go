package services

import (
	"sync"

	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// Broadcaster pushes engine events to live subscribers.
type Broadcaster interface {
	Broadcast(event *models.Event)
}

// NopBroadcaster drops every event. Used in tests and in deployments
// without a live feed.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(*models.Event) {}

// WSBroadcaster fans engine events out to websocket subscribers.
type WSBroadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewWSBroadcaster creates an empty websocket broadcaster.
func NewWSBroadcaster() *WSBroadcaster {
	return &WSBroadcaster{clients: make(map[*websocket.Conn]struct{})}
}

// Register adds a subscriber connection.
func (b *WSBroadcaster) Register(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[conn] = struct{}{}
}

// Unregister removes and closes a subscriber connection.
func (b *WSBroadcaster) Unregister(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		conn.Close()
	}
}

// Broadcast sends the event to every subscriber, dropping connections
// that fail to accept the write.
func (b *WSBroadcaster) Broadcast(event *models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteJSON(event); err != nil {
			slog.Warn("Dropping dead websocket subscriber", "error", err)
			delete(b.clients, conn)
			conn.Close()
		}
	}
}
