// Package execctx provides the execution context for key binding handlers
// and the collaborator contracts the dispatcher drives.
package execctx

import (
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/logging"
)

// Context is passed to a handler each time its binding fires. Collaborator
// references are resolved at dispatch time, never captured at registration.
type Context struct {
	// Keys is the sequence that triggered the binding.
	Keys *key.Sequence

	// Data is the bracketed paste payload, empty for ordinary keys.
	Data string

	// Count is the repeat count (1 if not specified).
	Count int

	Host   Host
	Window Window
	Pane   Pane
	Client ClientState

	Executor  CommandExecutor
	Clipboard Clipboard
	Logger    *logging.Logger
}

// New creates a context with a repeat count of 1.
func New() *Context {
	return &Context{
		Count:  1,
		Logger: logging.Nop(),
	}
}

// WithHost sets the host and resolves the active window, pane and client.
func (ctx *Context) WithHost(host Host) *Context {
	ctx.Host = host
	if host == nil {
		return ctx
	}
	ctx.Client = host.Client()
	ctx.Window = host.ActiveWindow()
	if ctx.Window != nil {
		ctx.Pane = ctx.Window.ActivePane()
	}
	return ctx
}

// WithKeys sets the triggering key sequence.
func (ctx *Context) WithKeys(keys *key.Sequence) *Context {
	ctx.Keys = keys
	return ctx
}

// WithData sets the paste payload.
func (ctx *Context) WithData(data string) *Context {
	ctx.Data = data
	return ctx
}

// WithCount sets the repeat count. Non-positive counts are ignored.
func (ctx *Context) WithCount(count int) *Context {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// WithExecutor sets the command executor.
func (ctx *Context) WithExecutor(exec CommandExecutor) *Context {
	ctx.Executor = exec
	return ctx
}

// WithClipboard sets the clipboard.
func (ctx *Context) WithClipboard(cb Clipboard) *Context {
	ctx.Clipboard = cb
	return ctx
}

// WithLogger sets the logger.
func (ctx *Context) WithLogger(l *logging.Logger) *Context {
	if l != nil {
		ctx.Logger = l
	}
	return ctx
}

// Arg returns the repeat count, defaulting to 1.
func (ctx *Context) Arg() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Event returns the last key of the triggering sequence.
func (ctx *Context) Event() key.Event {
	if last := ctx.Keys.Last(); last != nil {
		return *last
	}
	return key.Event{}
}

// ActivePane returns the active pane, or ErrMissingPane.
func (ctx *Context) ActivePane() (Pane, error) {
	if ctx.Pane == nil {
		return nil, ErrMissingPane
	}
	return ctx.Pane, nil
}

// Validate checks that the context has a host and client state.
func (ctx *Context) Validate() error {
	if ctx.Host == nil {
		return ErrMissingHost
	}
	if ctx.Client == nil {
		return ErrMissingClient
	}
	return nil
}
