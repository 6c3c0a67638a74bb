// Package agent
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"cpugauge/internal/config"
	"cpugauge/internal/domain"
	"cpugauge/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

var (
	ErrUnauthorized    = errors.New("connection failed: unauthorized (check token)")
	ErrSendBufferFull  = errors.New("send buffer full, snapshot dropped")
	defaultReconnectIn = 5 * time.Second
)

// Agent streams gauge snapshots to a remote display server over a websocket
// and reconnects when the session drops.
type Agent struct {
	cfg  *config.Config
	log  logger.Logger
	send chan []byte

	reconnectInterval time.Duration
}

func NewAgent(cfg *config.Config, log logger.Logger) *Agent {
	return &Agent{
		cfg:               cfg,
		log:               log,
		send:              make(chan []byte, sendBuffer),
		reconnectInterval: defaultReconnectIn,
	}
}

func IsFatalError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func (a *Agent) Name() string {
	return "websocket"
}

// Push queues a snapshot for the next session without blocking.
func (a *Agent) Push(_ context.Context, s domain.Snapshot) error {
	message, err := json.Marshal(&domain.WsAgentMessage{
		Type:    "event",
		Channel: domain.GetAgentCPUChannel(a.cfg.AgentID),
		Event:   domain.EventCPUGaugeReport,
		Payload: s,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	select {
	case a.send <- message:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Run keeps a session open until ctx is done. Only an authorization failure
// ends it early.
func (a *Agent) Run(ctx context.Context) error {
	attempt := 0

	for {
		a.log.Info("agent: connecting", "attempt", attempt+1, "url", a.cfg.AgentTargetWsURL)

		err := a.session(ctx)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				a.log.Error("agent: unauthorized token, giving up", "error", err)
				return err
			}

			a.log.Warn("agent: session failed, will retry", "error", err)
		}

		attempt++

		select {
		case <-ctx.Done():
			a.log.Info("agent: stopped")
			return nil
		case <-time.After(a.reconnectInterval):
		}
	}
}

func (a *Agent) session(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	header := make(http.Header)
	header.Set("Authorization", "Bearer "+a.cfg.AgentID.String()+"."+a.cfg.AgentAPIToken)

	conn, res, err := dialer.DialContext(ctx, a.cfg.AgentTargetWsURL, header)
	if err != nil {
		if res != nil && res.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("dial failed: %w", err)
	}
	a.log.Info("agent: connected", "url", a.cfg.AgentTargetWsURL)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.readPump(gctx, conn) })
	g.Go(func() error { return a.writePump(gctx, conn) })

	go func() {
		<-gctx.Done()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutting down"),
		)
		conn.Close()
	}()

	return g.Wait()
}

func (a *Agent) readPump(ctx context.Context, conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("server closed the session")
			}
			return err
		}

		var serverMessage domain.WsServerMessage
		if err := json.Unmarshal(message, &serverMessage); err != nil {
			a.log.Error("agent: invalid server message", "error", err)
			continue
		}

		a.log.Debug("agent: server message", "type", serverMessage.Type, "event", serverMessage.Event)
	}
}

func (a *Agent) writePump(ctx context.Context, conn *websocket.Conn) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case message := <-a.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("failed to write ping: %w", err)
			}
		}
	}
}
