package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
)

// Func is a command implemented in Go.
type Func func(ctx *execctx.Context, args []string) error

// Registry maps command names to Go functions.
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds a command. Names are unique.
func (r *Registry) Register(name string, fn Func) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if fn == nil {
		return fmt.Errorf("command %q: nil func", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.funcs[name] = fn
	return nil
}

// Unregister removes a command and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.funcs[name]
	delete(r.funcs, name)
	return exists
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Execute implements execctx.CommandExecutor.
func (r *Registry) Execute(ctx *execctx.Context, name string, args []string) error {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return fn(ctx, args)
}

// Chain tries each executor in order until one knows the command.
type Chain []execctx.CommandExecutor

// Execute implements execctx.CommandExecutor. Only ErrUnknownCommand
// moves on to the next executor; any other result is returned as is.
func (c Chain) Execute(ctx *execctx.Context, name string, args []string) error {
	for _, exec := range c {
		if exec == nil {
			continue
		}
		err := exec.Execute(ctx, name, args)
		if errors.Is(err, ErrUnknownCommand) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// HostCommands forwards commands to the host's command parser as a
// single line. Arguments containing blanks or quotes are quoted.
type HostCommands struct{}

// Execute implements execctx.CommandExecutor.
func (HostCommands) Execute(ctx *execctx.Context, name string, args []string) error {
	if ctx == nil || ctx.Host == nil {
		return execctx.ErrMissingHost
	}
	return ctx.Host.HandleCommand(CommandLine(name, args))
}

// CommandLine joins a command and its arguments, quoting where needed.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'\\;") {
			a = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(a) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
