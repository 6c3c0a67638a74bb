// Package ui is a terminal front end for the gauge. It owns the update tick:
// every refresh advances it once and then reads every face.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cpugauge/internal/collector/cpu"
	"cpugauge/internal/gauge"
)

type Source interface {
	Detected() []int
	Describe(id int, category cpu.Category) (gauge.Face, error)
	DescribeLoad() gauge.Face
}

type row struct {
	id   int
	face gauge.Face
}

// Model renders one card per selectable CPU plus the load average.
type Model struct {
	src       Source
	tick      *gauge.Tick
	interval  time.Duration
	loadEvery uint64
	category  cpu.Category

	rows  []row
	load  gauge.Face
	width int
}

// New reads the load face on every loadEvery-th refresh, starting with the
// first.
func New(src Source, tick *gauge.Tick, interval time.Duration, loadEvery int) *Model {
	return &Model{
		src:       src,
		tick:      tick,
		interval:  interval,
		loadEvery: uint64(max(loadEvery, 1)),
		category:  cpu.Total,
		width:     120,
	}
}

type tickMsg struct{}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) Init() tea.Cmd {
	m.refresh()
	return m.tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "right", "tab", "l":
			m.category = (m.category + 1) % cpu.NumCategories
			m.redescribe()
		case "left", "shift+tab", "h":
			m.category = (m.category + cpu.NumCategories - 1) % cpu.NumCategories
			m.redescribe()
		}
	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}
	return m, nil
}

// refresh starts a new update interval and reads every face in it.
func (m *Model) refresh() {
	tick := m.tick.Advance()
	m.redescribe()

	if (tick-1)%m.loadEvery == 0 {
		m.load = m.src.DescribeLoad()
	}
}

// redescribe reads the faces within the current interval, so switching
// category does not resample.
func (m *Model) redescribe() {
	ids := m.src.Detected()
	rows := make([]row, 0, len(ids))

	for _, id := range ids {
		face, err := m.src.Describe(id, m.category)
		if err != nil {
			continue
		}
		rows = append(rows, row{id: id, face: face})
	}

	m.rows = rows
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	header := titleStyle.Render("cpugauge") + "  " +
		subtleStyle.Render(fmt.Sprintf("tick %d  category %s  (←/→ switch, q quit)", m.tick.Current(), m.category))

	cards := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		clock, _, _ := strings.Cut(r.face.Bottom, "\n")
		cards = append(cards, card(
			strings.ReplaceAll(r.face.Top, "\n", " "),
			gaugeBar(r.face.Value, 20)+"\n"+clock,
		))
	}

	loadCard := card(
		strings.ReplaceAll(m.load.Top, "\n", " "),
		strings.ReplaceAll(m.load.Bottom, "\n", " "),
	)

	lines := []string{header}
	perLine := max(1, m.width/36)
	for start := 0; start < len(cards); start += perLine {
		end := min(start+perLine, len(cards))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	lines = append(lines, loadCard)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func gaugeBar(pct float64, width int) string {
	pct = max(0, min(pct, 100))
	filled := min(int((pct/100)*float64(width)), width)
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}
