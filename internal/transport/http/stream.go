package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/debate/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream handles GET /v1/debate/stream. Observers receive every accepted
// record as {"type":"record","record":{...}}; anything they send is ignored.
func (h *Handler) Stream(c echo.Context) error {
	if h.hub == nil {
		return errorJSON(c, http.StatusServiceUnavailable, "stream disabled")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	ctx := c.Request().Context()
	conn := h.hub.NewConnection(ws)
	h.hub.Register(ctx, conn)

	if h.cfg.MaxMessageSize > 0 {
		ws.SetReadLimit(h.cfg.MaxMessageSize)
	}

	go h.writePump(conn)
	h.readPump(c, conn)
	return nil
}

// readPump drains the connection so pongs and close frames are processed.
func (h *Handler) readPump(c echo.Context, conn *hub.Connection) {
	defer func() {
		h.hub.Unregister(c.Request().Context(), conn)
		conn.Close()
	}()

	readTimeout := durationOr(h.cfg.ReadTimeout, 60*time.Second)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket closed", "connection_id", conn.ID, "error", err)
			}
			return
		}
	}
}

// writePump writes queued records and keepalive pings.
func (h *Handler) writePump(conn *hub.Connection) {
	writeTimeout := durationOr(h.cfg.WriteTimeout, 10*time.Second)
	ticker := time.NewTicker(durationOr(h.cfg.PingInterval, 30*time.Second))
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Debug("websocket write failed", "connection_id", conn.ID, "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
