package cpu

import (
	"bufio"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"cpugauge/internal/logger"
)

const curFreqTemplate = "devices/system/cpu/cpu%d/cpufreq/scaling_cur_freq"

// Scanner enumerates per-core scaling_cur_freq files inside a sysfs root.
type Scanner struct {
	fsys    fs.FS
	log     logger.Logger
	maxCPUs int
}

func NewScanner(sysfs fs.FS, log logger.Logger, maxCPUs int) *Scanner {
	return &Scanner{
		fsys:    sysfs,
		log:     log,
		maxCPUs: maxCPUs,
	}
}

// Scan walks cores 0..maxCPUs-1 and stops at the first core whose frequency
// file cannot be opened. Present cores are assumed contiguous from 0, so a
// core after a gap is never seen.
func (s *Scanner) Scan() ClockFacts {
	facts := ClockFacts{MHz: []int{0}}
	sum := 0

	for core := 0; core < s.maxCPUs; core++ {
		path := fmt.Sprintf(curFreqTemplate, core)

		f, err := s.fsys.Open(path)
		if err != nil {
			s.log.Debug("cpu frequency scan stopped", "core", core, "error", err.Error())
			break
		}

		facts.Present++

		mhz, ok := readKHzAsMHz(f)
		f.Close()
		if !ok {
			continue
		}

		facts.MHz = append(facts.MHz, mhz)
		sum += mhz
	}

	if recorded := len(facts.MHz) - 1; recorded > 0 {
		facts.MHz[0] = sum / recorded
	}

	return facts
}

// readKHzAsMHz reads the first line of a frequency file. An unparsable value
// counts as 0 MHz; only an empty file is reported as not read.
func readKHzAsMHz(f fs.File) (int, bool) {
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, false
	}

	khz, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	return khz / 1000, true
}
