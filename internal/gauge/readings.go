package gauge

import (
	"cpugauge/internal/collector/cpu"
	"cpugauge/internal/domain"
)

func toPercent(u cpu.Utilization) domain.CPUPercent {
	return domain.CPUPercent{
		Total:   u[cpu.Total],
		User:    u[cpu.User],
		Nice:    u[cpu.Nice],
		System:  u[cpu.System],
		Idle:    u[cpu.Idle],
		IoWait:  u[cpu.IoWait],
		Irq:     u[cpu.Irq],
		SoftIrq: u[cpu.SoftIrq],
	}
}

func (g *Gauge) CPUReading(id int) (domain.CPUReading, error) {
	util, err := g.Utilization(id)
	if err != nil {
		return domain.CPUReading{}, err
	}

	return domain.CPUReading{
		Index:    id,
		Name:     CPUName(id),
		Percent:  toPercent(util),
		ClockMHz: g.ClockMHz(id),
	}, nil
}

// CPUReadings returns a reading for every selectable CPU.
func (g *Gauge) CPUReadings() []domain.CPUReading {
	ids := g.Detected()
	readings := make([]domain.CPUReading, 0, len(ids))

	for _, id := range ids {
		r, err := g.CPUReading(id)
		if err != nil {
			g.log.Warn("skipping cpu reading", "cpu", id, "error", err)
			continue
		}
		readings = append(readings, r)
	}

	return readings
}

func (g *Gauge) ClockReading() domain.ClockReading {
	facts := g.Clocks()

	perCore := make([]float64, 0, len(facts.MHz))
	for _, mhz := range facts.MHz[min(1, len(facts.MHz)):] {
		perCore = append(perCore, float64(mhz))
	}

	return domain.ClockReading{
		MeanMHz:    float64(facts.Mean()),
		PerCoreMHz: perCore,
		Cores:      facts.Present,
	}
}

func (g *Gauge) LoadReading() domain.LoadReading {
	avg, ok := g.LoadAverage()

	return domain.LoadReading{
		Load1:     avg.Load1,
		Load5:     avg.Load5,
		Load15:    avg.Load15,
		Running:   avg.Running,
		Processes: avg.Processes,
		LastPID:   avg.LastPID,
		Available: ok,
	}
}
