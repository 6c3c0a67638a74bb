package domain

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	EventCPUDetected    = "cpu_detected"
	EventCPUGaugeReport = "cpu_gauge_report"
)

const ChannelAgentCPUTemplate = "agent:%s:cpu"

// CPUDetected is published the first time a logical CPU's counter line is
// found. Index follows slot numbering: 0 is the aggregate, N is core N-1.
type CPUDetected struct {
	Index int `json:"index"`
}

func GetAgentCPUChannel(agentID uuid.UUID) string {
	return fmt.Sprintf(ChannelAgentCPUTemplate, agentID)
}

const EventSubscribed = "subscribed"
