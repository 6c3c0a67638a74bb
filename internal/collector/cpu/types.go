// Package cpu reads the kernel's per-CPU tick accounting and clock facts and
// turns counter deltas into percentages.
package cpu

// Category indexes Counters and Utilization. Total is synthetic; the rest
// follow the kernel's column order in /proc/stat.
type Category int

const (
	Total Category = iota
	User
	Nice
	System
	Idle
	IoWait
	Irq
	SoftIrq

	NumCategories = 8
)

var categoryNames = [NumCategories]string{
	"Total",
	"User",
	"Nice",
	"System",
	"Idle",
	"ioWait",
	"Irq",
	"softIrq",
}

func (c Category) String() string {
	if !c.Valid() {
		return "Unknown"
	}
	return categoryNames[c]
}

func (c Category) Valid() bool {
	return c >= Total && c < NumCategories
}

func Categories() []Category {
	return []Category{Total, User, Nice, System, Idle, IoWait, Irq, SoftIrq}
}

// Counters is one cumulative tick snapshot for a logical CPU.
type Counters [NumCategories]uint64

// Utilization holds rounded 0-100 percentages aligned with Counters.
type Utilization [NumCategories]int

type ClockFacts struct {
	// MHz[0] is the mean of the recorded cores, MHz[N] is core N-1.
	MHz     []int
	Present int
}

// Mean is the integer-truncated average clock in MHz.
func (f ClockFacts) Mean() int {
	if len(f.MHz) == 0 {
		return 0
	}
	return f.MHz[0]
}

// At returns the clock for a slot id (0 mean, N core N-1), or 0 when the
// scan did not record that core.
func (f ClockFacts) At(index int) int {
	if index < 0 || index >= len(f.MHz) {
		return 0
	}
	return f.MHz[index]
}
