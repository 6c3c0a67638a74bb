package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpugauge/internal/collector/cpu"
)

func TestCPUName(t *testing.T) {
	assert.Equal(t, "CPU", CPUName(0))
	assert.Equal(t, "CPU3", CPUName(3))
}

func TestDescribeCPU(t *testing.T) {
	f := newFixture(2)
	f.counters.data[1] = baseline
	f.gauge.Init()
	f.counters.data[1] = latest
	f.tick.Advance()

	face, err := f.gauge.Describe(1, cpu.User)
	require.NoError(t, err)

	assert.Equal(t, "CPU1\n(User)", face.Top)
	assert.Equal(t, "CPU1 User - Gauge", face.Window)
	assert.Equal(t, "2400.00 MHz\n45%", face.Bottom)
	assert.Equal(t, "<b>CPU1 User</b>: 45%\n<b>CPU Count</b>: 2\n<b>Clock</b>: 2400.00 MHz", face.Tip)
	assert.Equal(t, 45.0, face.Value)
}

func TestDescribeLoad(t *testing.T) {
	f := newFixture(1)

	face := f.gauge.DescribeLoad()

	assert.Equal(t, "Load\nAverage", face.Top)
	assert.Equal(t, "1.20\n(0.80)", face.Bottom)
	assert.Contains(t, face.Tip, "<b>15 min. average</b>: 0.50")
	assert.Contains(t, face.Tip, "<b>Processes</b>: 120\n<b>Running</b>: 3\n<b>Last PID</b>: 4521")
	assert.InDelta(t, 1.2, face.Value, 1e-9)
}

func TestDescribeLoadFallback(t *testing.T) {
	f := newFixture(1)
	f.loads.n = 5

	face := f.gauge.DescribeLoad()

	assert.Equal(t, "0.00\n(0.00)", face.Bottom)
	assert.Equal(t, "Missing load average", face.Tip)
	assert.Zero(t, face.Value)
}

func TestClockReading(t *testing.T) {
	f := newFixture(2)

	r := f.gauge.ClockReading()

	assert.Equal(t, 2100.0, r.MeanMHz)
	assert.Equal(t, []float64{2400, 1800}, r.PerCoreMHz)
	assert.Equal(t, 2, r.Cores)
}

func TestCPUReading(t *testing.T) {
	f := newFixture(2)
	f.counters.data[0] = baseline
	f.gauge.Init()
	f.counters.data[0] = latest
	f.tick.Advance()

	r, err := f.gauge.CPUReading(0)
	require.NoError(t, err)

	assert.Equal(t, "CPU", r.Name)
	assert.Equal(t, 82, r.Percent.Total)
	assert.Equal(t, 9, r.Percent.IoWait)
	assert.Equal(t, 2100.0, r.ClockMHz)
}
