package host

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpugauge/internal/domain"
	"cpugauge/internal/logger"
)

func TestCollect(t *testing.T) {
	c := NewCollector(logger.Discard())
	c.info = func(context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{
			Hostname:      "gauge-box",
			Platform:      "arch",
			KernelVersion: "6.9.1",
			Uptime:        3600,
		}, nil
	}

	got, err := c.Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.HostInfo{
		Hostname:      "gauge-box",
		Platform:      "arch",
		KernelVersion: "6.9.1",
		UptimeSeconds: 3600,
	}, got)
}

func TestCollectWrapsError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(logger.Discard())
	c.info = func(context.Context) (*host.InfoStat, error) { return nil, boom }

	_, err := c.Collect(context.Background())

	assert.ErrorIs(t, err, boom)
}
