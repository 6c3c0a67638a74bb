package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CPUPercent struct {
	Total   int `json:"total"`
	User    int `json:"user"`
	Nice    int `json:"nice"`
	System  int `json:"system"`
	Idle    int `json:"idle"`
	IoWait  int `json:"iowait"`
	Irq     int `json:"irq"`
	SoftIrq int `json:"softirq"`
}

type CPUReading struct {
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	Percent  CPUPercent `json:"percent"`
	ClockMHz float64    `json:"clock_mhz"`
}

type ClockReading struct {
	MeanMHz    float64   `json:"mean_mhz"`
	PerCoreMHz []float64 `json:"per_core_mhz"`
	Cores      int       `json:"cores"`
}

type LoadReading struct {
	Load1     float64 `json:"load1"`
	Load5     float64 `json:"load5"`
	Load15    float64 `json:"load15"`
	Running   int     `json:"running"`
	Processes int     `json:"processes"`
	LastPID   int     `json:"last_pid"`
	Available bool    `json:"available"`
}

type HostInfo struct {
	Hostname      string `json:"hostname"`
	Platform      string `json:"platform"`
	KernelVersion string `json:"kernel_version"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

type Snapshot struct {
	AgentID    uuid.UUID    `json:"agent_id"`
	Tick       uint64       `json:"tick"`
	CPUs       []CPUReading `json:"cpus"`
	Clock      ClockReading `json:"clock"`
	Load       LoadReading  `json:"load"`
	Host       HostInfo     `json:"host"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// CPU returns the reading for the logical CPU id, if it was part of the
// snapshot.
func (s Snapshot) CPU(index int) (CPUReading, bool) {
	for _, c := range s.CPUs {
		if c.Index == index {
			return c, true
		}
	}
	return CPUReading{}, false
}

type SnapshotSink interface {
	Name() string
	Push(ctx context.Context, s Snapshot) error
}
