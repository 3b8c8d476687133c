package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/muxkeys/internal/clipboard"
	"github.com/dshills/muxkeys/internal/terminal"
)

// refreshMsg asks the trace model to redraw after a reload.
type refreshMsg struct{}

// traceModel is the Bubble Tea front end of trace.
type traceModel struct {
	s      *session
	log    *traceLog
	quit   quitDetector
	height int
}

func newTraceModel(s *session, log *traceLog) *traceModel {
	return &traceModel{s: s, log: log, height: 24}
}

func (m *traceModel) Init() tea.Cmd {
	return nil
}

func (m *traceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		// Redraw only; the log already holds the reload lines.
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		in, ok := terminal.FromTea(msg)
		if !ok {
			m.log.Printf("%-10s unmapped", msg.String())
			return m, nil
		}
		line, quit := m.s.feed(&m.quit, in)
		if quit {
			return m, tea.Quit
		}
		m.log.Printf("%s", line)
	}
	return m, nil
}

func (m *traceModel) View() string {
	return strings.Join(m.log.Tail(m.height), "\n")
}

func runTeaTrace(flags *globalFlags) error {
	log := newTraceLog(nil)
	m := newTraceModel(nil, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	s, stop, err := startTrace(flags, log, clipboard.Default(), func() { p.Send(refreshMsg{}) })
	if err != nil {
		return err
	}
	defer stop()

	m.s = s
	_, err = p.Run()
	return err
}
