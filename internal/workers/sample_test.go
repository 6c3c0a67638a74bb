package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpugauge/internal/domain"
	"cpugauge/internal/gauge"
	"cpugauge/internal/logger"
)

type fakeGauge struct {
	loadCalls int
}

func (f *fakeGauge) CPUReadings() []domain.CPUReading {
	return []domain.CPUReading{{Index: 0, Name: "CPU", Percent: domain.CPUPercent{Total: 42}}}
}

func (f *fakeGauge) ClockReading() domain.ClockReading {
	return domain.ClockReading{MeanMHz: 2000, PerCoreMHz: []float64{2000}, Cores: 1}
}

func (f *fakeGauge) LoadReading() domain.LoadReading {
	f.loadCalls++
	return domain.LoadReading{Load1: float64(f.loadCalls), Available: true}
}

type fakeHost struct {
	err error
}

func (f *fakeHost) Collect(context.Context) (domain.HostInfo, error) {
	if f.err != nil {
		return domain.HostInfo{}, f.err
	}
	return domain.HostInfo{Hostname: "box"}, nil
}

type recordingSink struct {
	mu    sync.Mutex
	name  string
	err   error
	snaps []domain.Snapshot
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Push(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
	return s.err
}

func TestSampleWorkerBuildsSnapshot(t *testing.T) {
	tick := &gauge.Tick{}
	sink := &recordingSink{name: "mem"}
	id := uuid.New()
	w := NewSampleWorker(logger.Discard(), tick, &fakeGauge{}, &fakeHost{}, SampleOptions{AgentID: id, LoadEvery: 1}, sink)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	require.NoError(t, w.Run(context.Background()))

	require.Len(t, sink.snaps, 1)
	snap := sink.snaps[0]
	assert.Equal(t, id, snap.AgentID)
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, uint64(1), tick.Current())
	assert.Equal(t, 42, snap.CPUs[0].Percent.Total)
	assert.Equal(t, 2000.0, snap.Clock.MeanMHz)
	assert.True(t, snap.Load.Available)
	assert.Equal(t, "box", snap.Host.Hostname)
	assert.Equal(t, fixed, snap.RecordedAt)
}

func TestSampleWorkerLoadCadence(t *testing.T) {
	g := &fakeGauge{}
	sink := &recordingSink{name: "mem"}
	w := NewSampleWorker(logger.Discard(), &gauge.Tick{}, g, nil, SampleOptions{LoadEvery: 3}, sink)

	for range 7 {
		require.NoError(t, w.Run(context.Background()))
	}

	// ticks 1, 4 and 7 read the load average
	assert.Equal(t, 3, g.loadCalls)
	assert.Equal(t, 1.0, sink.snaps[2].Load.Load1)
	assert.Equal(t, 2.0, sink.snaps[3].Load.Load1)
	assert.Equal(t, 3.0, sink.snaps[6].Load.Load1)
}

func TestSampleWorkerKeepsLastHostInfo(t *testing.T) {
	host := &fakeHost{}
	sink := &recordingSink{name: "mem"}
	w := NewSampleWorker(logger.Discard(), &gauge.Tick{}, &fakeGauge{}, host, SampleOptions{}, sink)

	require.NoError(t, w.Run(context.Background()))
	host.err = errors.New("no utmp")
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, "box", sink.snaps[1].Host.Hostname)
}

func TestSampleWorkerJoinsSinkErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := &recordingSink{name: "redis", err: boom}
	healthy := &recordingSink{name: "snapshot"}
	w := NewSampleWorker(logger.Discard(), &gauge.Tick{}, &fakeGauge{}, nil, SampleOptions{}, failing, healthy)

	err := w.Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "sink redis")
	assert.Len(t, healthy.snaps, 1)
}

type countingWorker struct {
	runs atomic.Int32
}

func (c *countingWorker) Name() string { return "counting" }

func (c *countingWorker) Run(context.Context) error {
	c.runs.Add(1)
	return errors.New("ignored")
}

func TestSchedulerRunsUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &countingWorker{}

	NewScheduler(logger.Discard()).RunByDuration(ctx, 5*time.Millisecond, w)

	assert.Eventually(t, func() bool { return w.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
}
