package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/muxkeys/internal/clipboard"
	"github.com/dshills/muxkeys/internal/config"
	"github.com/dshills/muxkeys/internal/dispatcher"
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/sim"
	"github.com/dshills/muxkeys/internal/terminal"
)

// traceHistory is how many lines the trace view keeps.
const traceHistory = 500

func newTraceCmd(flags *globalFlags) *cobra.Command {
	var ui string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Feed terminal keys to a dispatcher and show how each resolves",
		Long: `trace opens the terminal, sends every key to a dispatcher running over an
in-memory multiplexer and prints the result. The binding file is reloaded
when it changes. Press q twice outside the prefix to quit.

--ui selects the input stack: tcell (default) or tea (Bubble Tea).`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			switch ui {
			case "tcell":
				return runTrace(flags)
			case "tea":
				return runTeaTrace(flags)
			}
			return fmt.Errorf("unknown --ui %q (want tcell or tea)", ui)
		},
	}
	cmd.Flags().StringVar(&ui, "ui", "tcell", "Terminal input stack: tcell or tea")
	return cmd
}

// startTrace builds the session for a trace and starts watching the
// binding file. onReload runs after every reload. The returned func
// releases both.
func startTrace(flags *globalFlags, log *traceLog, cb execctx.Clipboard, onReload func()) (*session, func(), error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	s, err := newSession(flags, cfg, log, cb)
	if s == nil {
		return nil, nil, err
	}
	if err != nil {
		log.Printf("config: %v", err)
	}

	stop := s.Close
	if flags.configPath != "" {
		reload := func(next *config.Config, err error) {
			s.reload(next, err)
			if onReload != nil {
				onReload()
			}
		}
		w, err := config.NewWatcher(flags.configPath, reload, config.WithWatcherLogger(s.logger))
		if err != nil {
			log.Printf("not watching %s: %v", flags.configPath, err)
		} else {
			stop = func() {
				_ = w.Close()
				s.Close()
			}
		}
	}
	log.Printf("session %s, prefix %s; q q quits", s.d.SessionID(), s.d.Prefix())
	return s, stop, nil
}

// feed delivers one input and returns the trace line for it, or quit.
func (s *session) feed(q *quitDetector, in terminal.Input) (line string, quit bool) {
	if q.Observe(in, s.host.ClientState().HasPrefix()) {
		return "", true
	}
	proc := s.host.ActivePane().Proc()
	before := len(proc.Inputs())

	res, err := terminal.Deliver(s.d, in)
	return formatResult(in, res, err, s.d.Mode(), forwarded(proc, before)), false
}

func runTrace(flags *globalFlags) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	view := &screenView{screen: screen}
	log := newTraceLog(view.draw)
	s, stop, err := startTrace(flags, log, clipboard.Default(), nil)
	if err != nil {
		return err
	}
	defer stop()

	src := terminal.NewSource(screen)
	var quit quitDetector
	for {
		in, ok := src.Next()
		if !ok {
			return nil
		}
		line, done := s.feed(&quit, in)
		if done {
			return nil
		}
		log.Printf("%s", line)
	}
}

// quitDetector reports two consecutive q presses made without the prefix.
type quitDetector struct {
	armed bool
}

// Observe records one input and reports whether to quit.
func (q *quitDetector) Observe(in terminal.Input, hasPrefix bool) bool {
	isQ := !in.Paste && !hasPrefix && in.Key.IsChar() && in.Key.Rune == 'q'
	if isQ && q.armed {
		return true
	}
	q.armed = isQ
	return false
}

// formatResult renders one trace line.
func formatResult(in terminal.Input, res dispatcher.Result, err error, mode dispatcher.Mode, sent []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-10s %-9s", in, res.Status)
	if res.Binding != "" {
		fmt.Fprintf(&sb, " %s [%s]", res.Binding, res.Layer)
	}
	fmt.Fprintf(&sb, " mode=%s", mode)
	if len(sent) > 0 {
		fmt.Fprintf(&sb, " pane<-%s", strings.Join(sent, ","))
	}
	if err != nil {
		fmt.Fprintf(&sb, " error: %v", err)
	}
	return sb.String()
}

// forwarded names the writes the active pane received after index from.
func forwarded(proc *sim.Process, from int) []string {
	inputs := proc.Inputs()
	if from >= len(inputs) {
		return nil
	}
	var out []string
	for _, in := range inputs[from:] {
		switch {
		case in.Paste:
			out = append(out, fmt.Sprintf("paste(%d bytes)", len(in.Data)))
		case in.Data != "":
			out = append(out, fmt.Sprintf("%q", in.Data))
		default:
			out = append(out, in.Key.String())
		}
	}
	return out
}

// traceLog keeps the most recent trace lines. It is also the logger's
// output, so log lines appear in the view.
type traceLog struct {
	mu       sync.Mutex
	lines    []string
	onChange func(lines []string)
}

func newTraceLog(onChange func(lines []string)) *traceLog {
	return &traceLog{onChange: onChange}
}

// Write implements io.Writer.
func (l *traceLog) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		l.add(line)
	}
	return len(p), nil
}

// Printf adds a formatted line.
func (l *traceLog) Printf(format string, args ...any) {
	l.add(fmt.Sprintf(format, args...))
}

// Tail returns up to n of the newest lines.
func (l *traceLog) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := 0
	if n >= 0 && len(l.lines) > n {
		start = len(l.lines) - n
	}
	return append([]string(nil), l.lines[start:]...)
}

func (l *traceLog) add(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	if len(l.lines) > traceHistory {
		l.lines = l.lines[len(l.lines)-traceHistory:]
	}
	var snapshot []string
	if l.onChange != nil {
		snapshot = append([]string(nil), l.lines...)
	}
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(snapshot)
	}
}

// screenView draws the newest trace lines on a tcell screen.
type screenView struct {
	mu     sync.Mutex
	screen tcell.Screen
}

func (v *screenView) draw(lines []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	w, h := v.screen.Size()
	if len(lines) > h {
		lines = lines[len(lines)-h:]
	}
	for y, line := range lines {
		x := 0
		for _, r := range line {
			if x >= w {
				break
			}
			v.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x++
		}
	}
	v.screen.Show()
}
