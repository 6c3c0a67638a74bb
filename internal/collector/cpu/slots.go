package cpu

type SlotState int

const (
	Stale SlotState = iota
	Fresh
)

func (s SlotState) String() string {
	if s == Fresh {
		return "fresh"
	}
	return "stale"
}

// Slot is the sampling state of one logical CPU: the two ends of the current
// measurement interval and the last computed percentages.
type Slot struct {
	Baseline    Counters
	Latest      Counters
	Utilization Utilization
	LastTick    uint64

	sampled bool
}

// State reports whether the slot still needs a sample during tick.
func (s *Slot) State(tick uint64) SlotState {
	if s.sampled && s.LastTick == tick {
		return Fresh
	}
	return Stale
}

func (s *Slot) Seed(baseline Counters) {
	s.Baseline = baseline
}

// Refresh records latest as the end of the interval and recomputes the
// percentages. The baseline only slides forward when the interval measured
// something, so an empty interval cannot reset it to an unadvanced read.
func (s *Slot) Refresh(tick uint64, latest Counters) uint64 {
	s.Latest = latest

	util, totalDelta := ComputeUtilization(s.Utilization, s.Baseline, latest)
	s.Utilization = util
	if totalDelta > 0 {
		s.Baseline = latest
	}

	s.LastTick = tick
	s.sampled = true

	return totalDelta
}

// Skip marks the slot sampled for tick without a measurement, leaving every
// snapshot and the percentages untouched.
func (s *Slot) Skip(tick uint64) {
	s.LastTick = tick
	s.sampled = true
}

// SlotTable is a fixed-capacity arena of slots indexed by CPU id, where id 0
// is the aggregate and id N is core N-1.
type SlotTable struct {
	slots []Slot
}

func NewSlotTable(maxCPUs int) *SlotTable {
	if maxCPUs < 0 {
		maxCPUs = 0
	}
	return &SlotTable{slots: make([]Slot, maxCPUs+1)}
}

func (t *SlotTable) Len() int {
	return len(t.slots)
}

func (t *SlotTable) Slot(id int) (*Slot, bool) {
	if id < 0 || id >= len(t.slots) {
		return nil, false
	}
	return &t.slots[id], true
}
