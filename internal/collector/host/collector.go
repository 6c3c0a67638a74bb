// Package host
package host

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/host"

	"cpugauge/internal/domain"
	"cpugauge/internal/logger"
)

type infoFunc func(ctx context.Context) (*host.InfoStat, error)

type Collector struct {
	log  logger.Logger
	info infoFunc
}

func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log, info: host.InfoWithContext}
}

func (c *Collector) Collect(ctx context.Context) (domain.HostInfo, error) {
	stat, err := c.info(ctx)
	if err != nil {
		c.log.Debug("failed to read host info", "error", err.Error())
		return domain.HostInfo{}, fmt.Errorf("host info failed: %w", err)
	}

	return domain.HostInfo{
		Hostname:      stat.Hostname,
		Platform:      stat.Platform,
		KernelVersion: stat.KernelVersion,
		UptimeSeconds: stat.Uptime,
	}, nil
}
