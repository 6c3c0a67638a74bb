package gauge

import (
	"fmt"

	"cpugauge/internal/collector/cpu"
)

// Face is the set of strings a gauge display shows for one reading.
type Face struct {
	Top    string
	Window string
	Bottom string
	Tip    string
	// Value drives the needle: a percentage for CPU faces, the 1 minute
	// average for the load face.
	Value float64
}

func CPUName(id int) string {
	if id == 0 {
		return "CPU"
	}
	return fmt.Sprintf("CPU%d", id)
}

func (g *Gauge) Describe(id int, category cpu.Category) (Face, error) {
	percent, err := g.Percent(id, category)
	if err != nil {
		return Face{}, err
	}

	name := CPUName(id)
	clock := g.ClockMHz(id)
	count := g.CPUCount()

	return Face{
		Top:    fmt.Sprintf("%s\n(%s)", name, category),
		Window: fmt.Sprintf("%s %s - Gauge", name, category),
		Bottom: fmt.Sprintf("%0.2f MHz\n%d%%", clock, percent),
		Tip: fmt.Sprintf("<b>%s %s</b>: %d%%\n<b>CPU Count</b>: %d\n<b>Clock</b>: %0.2f MHz",
			name, category, percent, count, clock),
		Value: float64(percent),
	}, nil
}

func (g *Gauge) DescribeLoad() Face {
	face := Face{
		Top:    "Load\nAverage",
		Window: "Load average - Gauge",
	}

	avg, ok := g.LoadAverage()
	if !ok {
		face.Bottom = "0.00\n(0.00)"
		face.Tip = "Missing load average"
		return face
	}

	face.Bottom = fmt.Sprintf("%0.2f\n(%0.2f)", avg.Load1, avg.Load5)
	face.Tip = fmt.Sprintf(
		"<b>1 min. average</b>: %0.2f\n<b>5 min. average</b>: %0.2f\n<b>15 min. average</b>: %0.2f\n"+
			"<b>Processes</b>: %d\n<b>Running</b>: %d\n<b>Last PID</b>: %d",
		avg.Load1, avg.Load5, avg.Load15,
		avg.Processes, avg.Running, avg.LastPID)
	face.Value = avg.Load1

	return face
}
