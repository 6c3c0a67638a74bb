package domain

import (
	"encoding/json"
)

type WsAgentMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type WsServerMessage struct {
	Type    string          `json:"type"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WsInternalEvent is what the live feed fans out to subscribed viewers.
type WsInternalEvent struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type WsClientMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
}
