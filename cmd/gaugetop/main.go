package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cpugauge/internal/config"
	"cpugauge/internal/event"
	"cpugauge/internal/gauge"
	"cpugauge/internal/logger"
	"cpugauge/internal/ui"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// the terminal belongs to the TUI; logs go to a file only when asked for
	appLog := logger.Discard()
	if path := os.Getenv("CPUGAUGE_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		appLog = logger.NewWithWriter(f, cfg.LogLevel, cfg.LogFormat)
	}

	bus := event.New(appLog)
	tick := &gauge.Tick{}

	g := gauge.NewFromConfig(cfg, bus, tick, appLog)
	g.Init()

	p := tea.NewProgram(ui.New(g, tick, cfg.UpdateInterval, cfg.LoadEvery), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "gaugetop:", err)
		os.Exit(1)
	}
}
