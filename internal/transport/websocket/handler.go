package websocket

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cpugauge/internal/logger"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
}

// NewHandler accepts viewers from allowedOrigins. An empty list accepts any
// origin.
func NewHandler(hub *Hub, allowedOrigins []string, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}

			if !slices.Contains(allowedOrigins, origin) {
				log.Warn("ws origin rejected", "origin", origin)
				return false
			}

			return true
		},
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		log:      log,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log, uuid.NewString())

	select {
	case h.hub.register <- client:
	case <-h.hub.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.log.Info("ws viewer connected", "remote_addr", conn.RemoteAddr())
}
