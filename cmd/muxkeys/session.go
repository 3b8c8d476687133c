package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/muxkeys/internal/command"
	"github.com/dshills/muxkeys/internal/config"
	"github.com/dshills/muxkeys/internal/dispatcher"
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/logging"
	"github.com/dshills/muxkeys/internal/sim"
)

// simulatedPanes is the pane count of the in-memory window.
const simulatedPanes = 2

// session wires a dispatcher to the simulated host, the command
// executors and the loaded configuration.
type session struct {
	host   *sim.Host
	d      *dispatcher.Dispatcher
	lua    *command.LuaExecutor
	logger *logging.Logger

	mu  sync.Mutex
	cfg *config.Config
}

// newSession builds a session. cfg may be nil. Errors applying bindings
// are returned together with a usable session.
func newSession(flags *globalFlags, cfg *config.Config, logOut io.Writer, cb execctx.Clipboard) (*session, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	levelName := cfg.LogLevel
	if flags.logLevel != "" {
		levelName = flags.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{Level: level, Output: logOut, Prefix: "muxkeys"})

	registry := command.NewRegistry()
	if err := command.Builtins(registry); err != nil {
		return nil, err
	}

	lua := command.NewLuaExecutor()
	for _, path := range flags.luaFiles {
		if err := lua.LoadFile(path); err != nil {
			lua.Close()
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	host := sim.NewHost(simulatedPanes)
	d, err := dispatcher.New(host,
		dispatcher.WithLogger(logger),
		dispatcher.WithExecutor(command.Chain{registry, lua, command.HostCommands{}}),
		dispatcher.WithClipboard(cb),
		dispatcher.WithMetrics(),
	)
	if err != nil {
		lua.Close()
		return nil, err
	}

	s := &session{host: host, d: d, lua: lua, logger: logger, cfg: cfg}
	return s, config.Apply(d, s.withLua(cfg))
}

// withLua layers the bindings made by Lua scripts over cfg. Lua owns
// every slot it binds, across reloads too.
func (s *session) withLua(cfg *config.Config) *config.Config {
	return config.Overlay(cfg, s.lua.Bindings())
}

// reload applies the difference between the current and next config.
func (s *session) reload(next *config.Config, err error) {
	if err != nil {
		s.logger.Warn("keeping previous bindings: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := config.Diff(s.withLua(s.cfg), s.withLua(next))
	if ch.IsEmpty() {
		return
	}
	if err := config.ApplyChanges(s.d, ch); err != nil {
		s.logger.Warn("reload: %v", err)
	}
	s.logger.Info("reload: -%d +%d bindings", len(ch.Unbind), len(ch.Bind))
	s.cfg = next
}

// effective returns the configuration the dispatcher currently runs.
func (s *session) effective() *config.Config {
	s.mu.Lock()
	level := s.cfg.LogLevel
	s.mu.Unlock()

	out := &config.Config{Prefix: s.d.Prefix().String(), LogLevel: level}
	for _, b := range s.d.CustomBindings() {
		out.Bindings = append(out.Bindings, config.BindingConfig{
			Key:      b.KeyName,
			Command:  b.Command,
			Args:     b.Args,
			NoPrefix: !b.NeedsPrefix,
		})
	}
	return out
}

func (s *session) Close() {
	_ = s.d.Close()
	_ = s.lua.Close()
}

// loadConfig loads path, or returns nil when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}
