// Package gauge answers per-CPU percentage, clock and load queries from cached
// state, resampling each CPU at most once per global update tick.
package gauge

import (
	"errors"
	"os"
	"sort"
	"sync"

	"cpugauge/internal/collector/cpu"
	"cpugauge/internal/collector/loadavg"
	"cpugauge/internal/config"
	"cpugauge/internal/domain"
	"cpugauge/internal/event"
	"cpugauge/internal/logger"
)

var (
	ErrCPUOutOfRange   = errors.New("cpu id out of range")
	ErrUnknownCategory = errors.New("unknown cpu category")
)

type CounterReader interface {
	ReadCounters(index int) (cpu.Counters, int)
}

type ClockScanner interface {
	Scan() cpu.ClockFacts
}

type LoadReader interface {
	Read() (loadavg.LoadAverage, int)
}

type Sources struct {
	Counters CounterReader
	Clocks   ClockScanner
	Loads    LoadReader
}

// factsCache remembers which tick a wholesale-rebuilt fact set belongs to.
type factsCache struct {
	tick    uint64
	sampled bool
}

func (c *factsCache) stale(tick uint64) bool {
	return !c.sampled || c.tick != tick
}

func (c *factsCache) mark(tick uint64) {
	c.tick = tick
	c.sampled = true
}

type Gauge struct {
	log    logger.Logger
	tick   *Tick
	src    Sources
	outbox *outbox

	mu         sync.Mutex
	slots      *cpu.SlotTable
	clock      cpu.ClockFacts
	clockCache factsCache
	load       loadavg.LoadAverage
	loadOK     bool
	loadCache  factsCache

	detectedMu sync.RWMutex
	detected   map[int]bool
}

func New(src Sources, tick *Tick, maxCPUs int, log logger.Logger) *Gauge {
	return &Gauge{
		log:      log,
		tick:     tick,
		src:      src,
		slots:    cpu.NewSlotTable(maxCPUs),
		detected: map[int]bool{0: true},
	}
}

// NewFromConfig wires the procfs and sysfs readers under the configured roots
// and subscribes the gauge to CPU detection events on bus. Detection events
// reach bus after the gauge lock is released.
func NewFromConfig(cfg *config.Config, bus *event.Bus, tick *Tick, log logger.Logger) *Gauge {
	procfs := os.DirFS(cfg.ProcRoot)
	sysfs := os.DirFS(cfg.SysRoot)
	ob := newOutbox(bus)

	g := New(Sources{
		Counters: cpu.NewReader(procfs, log, ob),
		Clocks:   cpu.NewScanner(sysfs, log, cfg.MaxCPUs),
		Loads:    loadavg.NewReader(procfs, log),
	}, tick, cfg.MaxCPUs, log)

	g.outbox = ob
	g.Subscribe(bus)

	return g
}

// Subscribe marks CPUs selectable as the counter reader discovers them. A
// counter reader that publishes to bus directly does so under the gauge lock,
// so other handlers on bus must not call back into the gauge; readers wired by
// NewFromConfig publish after the lock is released.
func (g *Gauge) Subscribe(bus *event.Bus) {
	bus.Subscribe(domain.EventCPUDetected, func(e any) {
		if d, ok := e.(domain.CPUDetected); ok {
			g.markDetected(d.Index)
		}
	})
}

// Init seeds every slot's baseline with an unconditional read.
func (g *Gauge) Init() {
	defer g.outbox.flush()
	g.mu.Lock()
	defer g.mu.Unlock()

	seeded := 0
	for id := 0; id < g.slots.Len(); id++ {
		slot, _ := g.slots.Slot(id)
		counters, n := g.src.Counters.ReadCounters(id)
		if n > 0 {
			seeded++
		}
		slot.Seed(counters)
	}

	g.log.Info("cpu gauge initialized", "slots", g.slots.Len(), "seeded", seeded)
}

func (g *Gauge) MaxCPUs() int {
	return g.slots.Len() - 1
}

func (g *Gauge) Tick() uint64 {
	return g.tick.Current()
}

// Percent returns one category's percentage for CPU id, resampling the CPU if
// the update tick moved since its last sample.
func (g *Gauge) Percent(id int, category cpu.Category) (int, error) {
	if !category.Valid() {
		return 0, ErrUnknownCategory
	}

	util, err := g.Utilization(id)
	if err != nil {
		return 0, err
	}

	return util[category], nil
}

func (g *Gauge) Utilization(id int) (cpu.Utilization, error) {
	defer g.outbox.flush()
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.slots.Slot(id)
	if !ok {
		return cpu.Utilization{}, ErrCPUOutOfRange
	}

	g.refreshSlotLocked(id, slot)

	return slot.Utilization, nil
}

// State reports whether CPU id would be resampled by a query right now.
func (g *Gauge) State(id int) (cpu.SlotState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.slots.Slot(id)
	if !ok {
		return cpu.Stale, ErrCPUOutOfRange
	}

	return slot.State(g.tick.Current()), nil
}

func (g *Gauge) refreshSlotLocked(id int, slot *cpu.Slot) {
	tick := g.tick.Current()
	if slot.State(tick) == cpu.Fresh {
		return
	}

	latest, n := g.src.Counters.ReadCounters(id)
	if n < cpu.TrackedFields {
		g.log.Debug("incomplete cpu counters this interval", "cpu", id, "tick", tick, "fields", n)
		slot.Skip(tick)
		return
	}

	if slot.Refresh(tick, latest) == 0 {
		g.log.Debug("empty cpu interval, keeping previous percentages", "cpu", id, "tick", tick)
	}
}

// Clocks returns the clock facts, rescanning at most once per update tick.
func (g *Gauge) Clocks() cpu.ClockFacts {
	g.mu.Lock()
	defer g.mu.Unlock()

	tick := g.tick.Current()
	if g.clockCache.stale(tick) {
		g.rescanClocksLocked(tick)
	}

	return g.clock
}

// RefreshClocks rebuilds the clock facts regardless of the update tick.
func (g *Gauge) RefreshClocks() cpu.ClockFacts {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rescanClocksLocked(g.tick.Current())

	return g.clock
}

func (g *Gauge) rescanClocksLocked(tick uint64) {
	g.clock = g.src.Clocks.Scan()
	g.clockCache.mark(tick)
}

// ClockMHz is the clock for CPU id: the mean for 0, core id-1 otherwise.
func (g *Gauge) ClockMHz(id int) float64 {
	return float64(g.Clocks().At(id))
}

// CPUCount is the number of contiguous cores the last clock scan found.
func (g *Gauge) CPUCount() int {
	return g.Clocks().Present
}

// LoadAverage returns the load facts and whether the last read was complete.
// An incomplete read reports zeros rather than the previous values.
func (g *Gauge) LoadAverage() (loadavg.LoadAverage, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tick := g.tick.Current()
	if g.loadCache.stale(tick) {
		avg, n := g.src.Loads.Read()
		g.loadOK = n == loadavg.FieldCount
		if g.loadOK {
			g.load = avg
		} else {
			g.log.Debug("load average unavailable", "fields", n)
		}
		g.loadCache.mark(tick)
	}

	if !g.loadOK {
		return loadavg.LoadAverage{}, false
	}
	return g.load, true
}

func (g *Gauge) markDetected(id int) {
	g.detectedMu.Lock()
	defer g.detectedMu.Unlock()

	if !g.detected[id] {
		g.log.Debug("cpu detected", "cpu", id)
	}
	g.detected[id] = true
}

// Selectable reports whether CPU id has been seen in the counter table. The
// aggregate is always selectable.
func (g *Gauge) Selectable(id int) bool {
	g.detectedMu.RLock()
	defer g.detectedMu.RUnlock()

	return g.detected[id]
}

// Detected lists the selectable CPU ids in ascending order.
func (g *Gauge) Detected() []int {
	g.detectedMu.RLock()
	ids := make([]int, 0, len(g.detected))
	for id := range g.detected {
		ids = append(ids, id)
	}
	g.detectedMu.RUnlock()

	sort.Ints(ids)
	return ids
}
