package cpu

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpugauge/internal/domain"
	"cpugauge/internal/event"
	"cpugauge/internal/logger"
)

const statFixture = `cpu  10132153 290696 3084719 46828483 16683 0 25195 0 0 0
cpu0 1393280 32966 572056 13343292 6130 0 17875 0 0 0
cpu1 1335380 34437 479560 13481955 5232 0 2370 7 0 0
cpu2 5 6 7
cpu3 1 x 3 4 5 6 7
intr 1462898 27 0 0 0 0 0 0 0 1 0 0 0 0 0 0
ctxt 1990473
btime 1062191376
processes 2915
`

func newTestReader(data string, bus Publisher) *Reader {
	fsys := fstest.MapFS{
		"stat": &fstest.MapFile{Data: []byte(data)},
	}
	return NewReader(fsys, logger.Discard(), bus)
}

func TestReadCountersAggregate(t *testing.T) {
	r := newTestReader(statFixture, nil)

	c, n := r.ReadCounters(0)

	require.Equal(t, 7, n)
	assert.Equal(t, uint64(10132153), c[User])
	assert.Equal(t, uint64(290696), c[Nice])
	assert.Equal(t, uint64(3084719), c[System])
	assert.Equal(t, uint64(46828483), c[Idle])
	assert.Equal(t, uint64(16683), c[IoWait])
	assert.Equal(t, uint64(0), c[Irq])
	assert.Equal(t, uint64(25195), c[SoftIrq])
	assert.Equal(t, uint64(13549446), c[Total])
}

func TestReadCountersPerCore(t *testing.T) {
	r := newTestReader(statFixture, nil)

	c, n := r.ReadCounters(2)

	require.Equal(t, 7, n)
	assert.Equal(t, uint64(1335380), c[User])
	assert.Equal(t, uint64(2370), c[SoftIrq])
	// steal (7) is past the tracked columns and stays out of Total
	assert.Equal(t, uint64(1335380+34437+479560+5232+0+2370), c[Total])
}

func TestReadCountersMissingLabel(t *testing.T) {
	r := newTestReader(statFixture, nil)

	c, n := r.ReadCounters(9)

	assert.Equal(t, 0, n)
	assert.Equal(t, Counters{}, c)
}

func TestReadCountersMissingFile(t *testing.T) {
	r := NewReader(fstest.MapFS{}, logger.Discard(), nil)

	c, n := r.ReadCounters(0)

	assert.Equal(t, 0, n)
	assert.Equal(t, Counters{}, c)
}

func TestReadCountersNegativeIndex(t *testing.T) {
	r := newTestReader(statFixture, nil)

	_, n := r.ReadCounters(-1)

	assert.Equal(t, 0, n)
}

func TestReadCountersShortAndMalformedLines(t *testing.T) {
	r := newTestReader(statFixture, nil)

	c, n := r.ReadCounters(3)
	assert.Equal(t, 3, n)
	assert.Equal(t, Counters{18, 5, 6, 7, 0, 0, 0, 0}, c)

	c, n = r.ReadCounters(4)
	assert.Equal(t, 1, n)
	assert.Equal(t, Counters{1, 1, 0, 0, 0, 0, 0, 0}, c)
}

func TestReadCountersPublishesDetectionOnce(t *testing.T) {
	bus := event.New(logger.Discard())

	var detected []int
	bus.Subscribe(domain.EventCPUDetected, func(e any) {
		detected = append(detected, e.(domain.CPUDetected).Index)
	})

	r := newTestReader(statFixture, bus)

	r.ReadCounters(0)
	r.ReadCounters(1)
	r.ReadCounters(1)
	r.ReadCounters(2)
	r.ReadCounters(9)

	assert.Equal(t, []int{1, 2}, detected)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "cpu", Label(0))
	assert.Equal(t, "cpu0", Label(1))
	assert.Equal(t, "cpu15", Label(16))
}
