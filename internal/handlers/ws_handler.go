package handlers

import (
	"net/http"

	"github.com/letterdraw/letterdraw-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades clients onto the live engine event feed.
type WSHandler struct {
	broadcaster *services.WSBroadcaster
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(broadcaster *services.WSBroadcaster) *WSHandler {
	return &WSHandler{broadcaster: broadcaster}
}

// Subscribe handles GET /ws. The connection only receives; a read loop
// runs solely to detect the close.
func (h *WSHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}

	h.broadcaster.Register(conn)
	go func() {
		defer h.broadcaster.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
