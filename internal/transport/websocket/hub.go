// Package websocket serves the live gauge feed to viewers. Viewers subscribe to
// channels and the hub fans snapshots and detection events out to them.
package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"cpugauge/internal/domain"
	"cpugauge/internal/event"
	"cpugauge/internal/logger"
)

var ErrHubBusy = errors.New("feed event queue full")

type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc

	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription

	events chan *domain.WsInternalEvent

	channel string
	log     logger.Logger
}

type Subscription struct {
	client  *Client
	channel string
}

func NewHub(parent context.Context, log logger.Logger, agentID uuid.UUID) *Hub {
	ctx, cancel := context.WithCancel(parent)

	return &Hub{
		ctx:    ctx,
		cancel: cancel,

		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),

		events: make(chan *domain.WsInternalEvent, 100),

		channel: domain.GetAgentCPUChannel(agentID),
		log:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.log.Info("ws: hub shutting down")
			for client := range h.clients {
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: viewer registered", "id", client.ID, "total_clients", len(h.clients))

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			if !h.clients[sub.client] {
				continue
			}
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			h.log.Debug("ws: viewer subscribed", "client_id", sub.client.ID, "channel", sub.channel)

			h.deliver(sub.client, &domain.WsInternalEvent{
				Channel: sub.channel,
				Event:   domain.EventSubscribed,
			})

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.channels, sub.channel)
				}
				h.log.Debug("ws: viewer unsubscribed", "client_id", sub.client.ID, "channel", sub.channel)
			}

		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) removeClient(client *Client) {
	if !h.clients[client] {
		return
	}

	delete(h.clients, client)
	close(client.send)
	h.log.Info("ws: viewer unregistered", "id", client.ID, "total_clients", len(h.clients))

	for channelID, subs := range h.channels {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.channels, channelID)
		}
	}
}

func (h *Hub) handleEvent(ev *domain.WsInternalEvent) {
	subs, ok := h.channels[ev.Channel]
	if !ok {
		h.log.Debug("ws: event channel has no subscribers", "channel", ev.Channel)
		return
	}

	for client := range subs {
		h.deliver(client, ev)
	}
}

func (h *Hub) deliver(client *Client, ev *domain.WsInternalEvent) {
	message, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws: failed to marshal event", "error", err)
		return
	}

	select {
	case client.send <- message:
	default:
		h.log.Warn("ws: viewer channel full, force unregister", "id", client.ID)
		h.removeClient(client)
	}
}

// Broadcast queues ev without blocking and reports whether it was accepted.
func (h *Hub) Broadcast(ev *domain.WsInternalEvent) bool {
	select {
	case h.events <- ev:
		return true
	default:
		return false
	}
}

func (h *Hub) Name() string {
	return "feed"
}

func (h *Hub) Push(_ context.Context, s domain.Snapshot) error {
	if !h.Broadcast(&domain.WsInternalEvent{
		Channel: h.channel,
		Event:   domain.EventCPUGaugeReport,
		Payload: s,
	}) {
		return ErrHubBusy
	}
	return nil
}

// Subscribe forwards CPU detection events from bus to feed viewers.
func (h *Hub) Subscribe(bus *event.Bus) {
	bus.Subscribe(domain.EventCPUDetected, func(e any) {
		d, ok := e.(domain.CPUDetected)
		if !ok {
			return
		}

		if !h.Broadcast(&domain.WsInternalEvent{
			Channel: h.channel,
			Event:   domain.EventCPUDetected,
			Payload: d,
		}) {
			h.log.Warn("ws: dropped cpu detection event", "cpu", d.Index)
		}
	})
}
