// Package loadavg reads the scheduler load averages and process counts.
package loadavg

import (
	"fmt"
	"io/fs"

	"cpugauge/internal/logger"
)

const (
	loadavgFile = "loadavg"

	// FieldCount is the number of fields in a complete loadavg record.
	FieldCount = 6
)

type LoadAverage struct {
	Load1     float64
	Load5     float64
	Load15    float64
	Running   int
	Processes int
	LastPID   int
}

type Reader struct {
	fsys fs.FS
	log  logger.Logger
}

func NewReader(procfs fs.FS, log logger.Logger) *Reader {
	return &Reader{fsys: procfs, log: log}
}

// Read scans "load1 load5 load15 running/total lastpid" and returns how many
// fields matched. Fewer than FieldCount means the record is unusable.
func (r *Reader) Read() (LoadAverage, int) {
	var avg LoadAverage

	data, err := fs.ReadFile(r.fsys, loadavgFile)
	if err != nil {
		r.log.Debug("failed to read loadavg", "error", err.Error())
		return avg, 0
	}

	n, err := Parse(string(data), &avg)
	if err != nil {
		r.log.Debug("failed to parse loadavg", "fields", n, "error", err.Error())
	}

	return avg, n
}

// Parse fills avg from a loadavg line and returns the matched field count.
func Parse(line string, avg *LoadAverage) (int, error) {
	return fmt.Sscanf(line, "%f %f %f %d/%d %d",
		&avg.Load1, &avg.Load5, &avg.Load15,
		&avg.Running, &avg.Processes, &avg.LastPID)
}
