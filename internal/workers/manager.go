// Package workers
package workers

import (
	"context"
	"time"

	"cpugauge/internal/logger"
)

type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

type Manager struct {
	log logger.Logger

	scheduler *Scheduler
	interval  time.Duration
	sampler   *SampleWorker
}

func NewManager(log logger.Logger, scheduler *Scheduler, interval time.Duration, sampler *SampleWorker) *Manager {
	return &Manager{
		log: log,

		scheduler: scheduler,
		interval:  interval,
		sampler:   sampler,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.log.Info("worker: manager started", "interval", m.interval)

	m.scheduler.RunByDuration(ctx, m.interval, m.sampler)
}
