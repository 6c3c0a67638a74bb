package loadavg

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpugauge/internal/logger"
)

func reader(data string) *Reader {
	return NewReader(fstest.MapFS{
		"loadavg": &fstest.MapFile{Data: []byte(data)},
	}, logger.Discard())
}

func TestRead(t *testing.T) {
	avg, n := reader("1.20 0.80 0.50 3/120 4521\n").Read()

	require.Equal(t, FieldCount, n)
	assert.InDelta(t, 1.20, avg.Load1, 1e-9)
	assert.InDelta(t, 0.80, avg.Load5, 1e-9)
	assert.InDelta(t, 0.50, avg.Load15, 1e-9)
	assert.Equal(t, 3, avg.Running)
	assert.Equal(t, 120, avg.Processes)
	assert.Equal(t, 4521, avg.LastPID)
}

func TestReadPartial(t *testing.T) {
	avg, n := reader("0.42 0.17 ").Read()

	assert.Equal(t, 2, n)
	assert.InDelta(t, 0.42, avg.Load1, 1e-9)
}

func TestReadMalformedPair(t *testing.T) {
	_, n := reader("0.42 0.17 0.01 3-120 99").Read()

	assert.Equal(t, 4, n)
}

func TestReadMissingFile(t *testing.T) {
	avg, n := NewReader(fstest.MapFS{}, logger.Discard()).Read()

	assert.Equal(t, 0, n)
	assert.Equal(t, LoadAverage{}, avg)
}
