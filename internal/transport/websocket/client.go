package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"cpugauge/internal/domain"
	"cpugauge/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  logger.Logger

	ID string
}

func NewClient(hub *Hub, conn *websocket.Conn, log logger.Logger, id string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		log:  log,
		ID:   id,
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("ws: viewer disconnected unexpected", "error", err)
			}
			return
		}

		var msg domain.WsClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Error("ws: invalid viewer message", "error", err)
			continue
		}

		var target chan *Subscription
		switch msg.Type {
		case "subscribe":
			target = c.hub.subscribe
		case "unsubscribe":
			target = c.hub.unsubscribe
		default:
			c.log.Warn("ws: unknown viewer message type", "type", msg.Type)
			continue
		}

		select {
		case target <- &Subscription{client: c, channel: msg.Channel}:
		case <-c.hub.ctx.Done():
			return
		}
	}
}

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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
