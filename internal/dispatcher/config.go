package dispatcher

import (
	"time"

	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/input/keymap"
	"github.com/dshills/muxkeys/internal/logging"
)

// DefaultPrefix is the prefix chord installed by New.
const DefaultPrefix = "C-b"

// config holds the settings collected from Options.
type config struct {
	logger           *logging.Logger
	executor         execctx.CommandExecutor
	clipboard        execctx.Clipboard
	lineEditor       *keymap.Table
	prefix           *key.Sequence
	timeout          time.Duration
	metrics          bool
	recoverFromPanic bool
	sessionID        string
}

func defaultConfig() config {
	return config{
		logger:           logging.Nop(),
		prefix:           key.MustParseSequence(DefaultPrefix),
		timeout:          SequenceTimeout,
		recoverFromPanic: true,
	}
}

// Option configures a Dispatcher.
type Option func(*config)

// WithLogger sets the logger. Binding changes are logged at info, resolution
// at debug and handler failures at warn.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithExecutor sets the command executor custom bindings invoke.
func WithExecutor(exec execctx.CommandExecutor) Option {
	return func(c *config) { c.executor = exec }
}

// WithClipboard sets the clipboard copied selections are written to.
// Without it an in-memory clipboard is used.
func WithClipboard(cb execctx.Clipboard) Option {
	return func(c *config) { c.clipboard = cb }
}

// WithLineEditorBindings merges a pre-built line-editor table. It is
// consulted first, and only while a command line, prompt or scroll buffer
// has focus and no prefix is pending.
func WithLineEditorBindings(t *keymap.Table) Option {
	return func(c *config) { c.lineEditor = t }
}

// WithPrefix sets the initial prefix chord.
func WithPrefix(seq *key.Sequence) Option {
	return func(c *config) {
		if !seq.IsEmpty() {
			c.prefix = seq.Clone()
		}
	}
}

// WithSequenceTimeout sets how long a pending sequence waits for its next
// key. Non-positive values keep SequenceTimeout.
func WithSequenceTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMetrics enables dispatch statistics.
func WithMetrics() Option {
	return func(c *config) { c.metrics = true }
}

// WithPanicRecovery controls whether handler panics are converted to
// ErrPanic errors. Enabled by default.
func WithPanicRecovery(recover bool) Option {
	return func(c *config) { c.recoverFromPanic = recover }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(c *config) { c.sessionID = id }
}
