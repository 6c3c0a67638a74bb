package workers

import (
	"context"
	"time"

	"cpugauge/internal/logger"
)

type Scheduler struct {
	log logger.Logger
}

func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// RunByDuration runs worker on every tick of dur until ctx is done. A failed
// run is logged and the schedule continues.
func (s *Scheduler) RunByDuration(ctx context.Context, dur time.Duration, worker Worker) {
	go func() {
		ticker := time.NewTicker(dur)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Debug("worker canceled", "name", worker.Name())
				return
			case <-ticker.C:
				start := time.Now()

				err := worker.Run(ctx)
				if err != nil {
					s.log.Error("worker failed", "name", worker.Name(), "error", err)
				}

				s.log.Debug("worker finished", "name", worker.Name(), "time", time.Since(start))
			}
		}
	}()
}
