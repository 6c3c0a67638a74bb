package cpu

import (
	"bufio"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"cpugauge/internal/domain"
	"cpugauge/internal/logger"
)

const (
	statFile = "stat"

	// TrackedFields is the number of kernel columns a complete row yields:
	// user, nice, system, idle, iowait, irq, softirq.
	TrackedFields = NumCategories - 1

	// the intr line lists every interrupt source and can outgrow bufio's
	// default token size on large machines
	maxStatLine = 1 << 20
)

// Publisher receives CPU detection events. *event.Bus satisfies it.
type Publisher interface {
	Publish(eventName string, event any)
}

// Reader parses the per-CPU tick table found at "stat" inside a procfs root.
type Reader struct {
	fsys fs.FS
	log  logger.Logger
	bus  Publisher

	mu       sync.Mutex
	detected map[int]bool
}

// NewReader returns a Reader over procfs. bus may be nil.
func NewReader(procfs fs.FS, log logger.Logger, bus Publisher) *Reader {
	return &Reader{
		fsys:     procfs,
		log:      log,
		bus:      bus,
		detected: make(map[int]bool),
	}
}

// Label returns the stat line label for a slot id: "cpu" for 0, "cpu<N-1>"
// for N.
func Label(index int) string {
	if index == 0 {
		return "cpu"
	}
	return "cpu" + strconv.Itoa(index-1)
}

// ReadCounters returns the counters for slot id index and the number of
// tracked kernel fields parsed. A missing table or label yields zero counters
// and 0 fields.
func (r *Reader) ReadCounters(index int) (Counters, int) {
	if index < 0 {
		return Counters{}, 0
	}

	f, err := r.fsys.Open(statFile)
	if err != nil {
		r.log.Debug("failed to read cpu stat", "error", err.Error())
		return Counters{}, 0
	}
	defer f.Close()

	label := Label(index)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxStatLine)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != label {
			continue
		}

		r.markDetected(index)

		var counters Counters
		n := parseCounters(fields[1:], &counters)
		return counters, n
	}

	if err := scanner.Err(); err != nil {
		r.log.Debug("failed to scan cpu stat", "cpu", label, "error", err.Error())
	}

	return Counters{}, 0
}

func parseCounters(fields []string, counters *Counters) int {
	n := 0
	for _, field := range fields {
		if n == TrackedFields {
			break
		}

		v, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			break
		}

		n++
		category := Category(n)
		counters[category] = v
		if category != Idle {
			counters[Total] += v
		}
	}
	return n
}

func (r *Reader) markDetected(index int) {
	if index == 0 {
		return
	}

	r.mu.Lock()
	first := !r.detected[index]
	r.detected[index] = true
	r.mu.Unlock()

	if first && r.bus != nil {
		r.bus.Publish(domain.EventCPUDetected, domain.CPUDetected{Index: index})
	}
}
