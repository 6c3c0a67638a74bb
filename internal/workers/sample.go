package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cpugauge/internal/domain"
	"cpugauge/internal/gauge"
	"cpugauge/internal/logger"
)

type GaugeReader interface {
	CPUReadings() []domain.CPUReading
	ClockReading() domain.ClockReading
	LoadReading() domain.LoadReading
}

type HostCollector interface {
	Collect(ctx context.Context) (domain.HostInfo, error)
}

type SampleOptions struct {
	AgentID   uuid.UUID
	LoadEvery int
}

// SampleWorker drives the update tick. Each run advances the tick, reads the
// gauge once and pushes the resulting snapshot to every sink.
type SampleWorker struct {
	log   logger.Logger
	tick  *gauge.Tick
	gauge GaugeReader
	host  HostCollector
	sinks []domain.SnapshotSink

	agentID   uuid.UUID
	loadEvery uint64
	now       func() time.Time

	load     domain.LoadReading
	hostInfo domain.HostInfo
}

func NewSampleWorker(
	log logger.Logger,
	tick *gauge.Tick,
	g GaugeReader,
	host HostCollector,
	opts SampleOptions,
	sinks ...domain.SnapshotSink,
) *SampleWorker {
	loadEvery := uint64(max(opts.LoadEvery, 1))

	return &SampleWorker{
		log:       log,
		tick:      tick,
		gauge:     g,
		host:      host,
		sinks:     sinks,
		agentID:   opts.AgentID,
		loadEvery: loadEvery,
		now:       time.Now,
	}
}

func (w *SampleWorker) Name() string {
	return "cpu_sample_worker"
}

func (w *SampleWorker) Run(ctx context.Context) error {
	tick := w.tick.Advance()

	// load average moves slowly; the first tick always reads it
	if (tick-1)%w.loadEvery == 0 {
		w.load = w.gauge.LoadReading()
	}

	if w.host != nil {
		info, err := w.host.Collect(ctx)
		if err != nil {
			w.log.Warn("host info unavailable, keeping last", "error", err)
		} else {
			w.hostInfo = info
		}
	}

	snap := domain.Snapshot{
		AgentID:    w.agentID,
		Tick:       tick,
		CPUs:       w.gauge.CPUReadings(),
		Clock:      w.gauge.ClockReading(),
		Load:       w.load,
		Host:       w.hostInfo,
		RecordedAt: w.now().UTC(),
	}

	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Push(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
		}
	}

	w.log.Debug("snapshot pushed", "tick", tick, "cpus", len(snap.CPUs), "sinks", len(w.sinks))

	return errors.Join(errs...)
}
