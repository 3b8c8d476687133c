package dispatcher

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/muxkeys/internal/clipboard"
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/input/keymap"
	"github.com/dshills/muxkeys/internal/logging"
)

// SequenceTimeout is how long a pending multi-key sequence waits for its
// next key before the shorter match (if any) fires.
const SequenceTimeout = 1000 * time.Millisecond

// Table names, in evaluation order.
const (
	LayerLineEditor = "line-editor"
	LayerBuiltins   = "builtins"
	LayerSearch     = "search"
	LayerPrefix     = "prefix"
	LayerCustom     = "custom"
)

// Dispatcher resolves key events against the merged binding tables of one
// client session and fires the winning handler.
type Dispatcher struct {
	// mu serializes dispatch and table mutation.
	mu sync.Mutex

	host          execctx.Host
	catalog       *filter.Catalog
	executor      execctx.CommandExecutor
	clipboard     execctx.Clipboard
	logger        *logging.Logger
	metrics       *Metrics
	recoverPanics bool
	sessionID     string

	builtins *keymap.Table
	search   *keymap.Table
	prefixes *keymap.Table
	custom   *keymap.Table
	merged   *keymap.Merged

	// Pending multi-key sequence, guarded by mu.
	pending    *key.Sequence
	pendingGen uint64
	timer      *time.Timer
	timeout    time.Duration
	closed     bool

	// cfgMu guards the fields below. It is never held while a handler runs,
	// so handlers may read configuration and queue changes.
	cfgMu       sync.Mutex
	dispatching bool
	deferred    []func() error
	arg         int
	prefix      *key.Sequence
	prefixID    keymap.BindingID
	records     map[recordKey]*CustomBinding
}

// New creates a dispatcher for host with the builtin, search and prefix
// bindings installed.
func New(host execctx.Host, opts ...Option) (*Dispatcher, error) {
	if host == nil {
		return nil, ErrNoHost
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.NewString()
	}
	if cfg.clipboard == nil {
		cfg.clipboard = clipboard.NewMemory()
	}

	catalog := filter.DefaultCatalog()
	d := &Dispatcher{
		host:          host,
		catalog:       catalog,
		executor:      cfg.executor,
		clipboard:     cfg.clipboard,
		recoverPanics: cfg.recoverFromPanic,
		sessionID:     cfg.sessionID,
		builtins:      keymap.NewTable(LayerBuiltins, catalog),
		search:        keymap.NewTable(LayerSearch, catalog),
		prefixes:      keymap.NewTable(LayerPrefix, catalog),
		custom:        keymap.NewTable(LayerCustom, catalog),
		pending:       key.NewSequence(),
		timeout:       cfg.timeout,
		records:       make(map[recordKey]*CustomBinding),
	}
	d.logger = cfg.logger.WithComponent("dispatcher").WithField("session", d.sessionID)
	if cfg.metrics {
		d.metrics = NewMetrics()
	}

	if err := loadBuiltins(d.builtins); err != nil {
		return nil, fmt.Errorf("loading builtin bindings: %w", err)
	}
	if err := loadSearchBindings(d.search); err != nil {
		return nil, fmt.Errorf("loading search bindings: %w", err)
	}
	if err := d.installPrefix(cfg.prefix); err != nil {
		return nil, fmt.Errorf("installing prefix %s: %w", cfg.prefix, err)
	}

	if err := validateTable(catalog, cfg.lineEditor); err != nil {
		return nil, fmt.Errorf("line-editor bindings: %w", err)
	}

	d.merged = keymap.NewMerged(
		keymap.Layer{Table: cfg.lineEditor, Gate: lineEditorGate},
		keymap.Layer{Table: d.builtins},
		keymap.Layer{Table: d.search},
		keymap.Layer{Table: d.prefixes},
		keymap.Layer{Table: d.custom},
	)

	d.logger.Debug("dispatcher ready with %d bindings", len(d.merged.Bindings()))
	return d, nil
}

// validateTable checks an externally built table against the dispatcher's
// queries. Tables may be built with another catalog or none at all.
func validateTable(catalog *filter.Catalog, t *keymap.Table) error {
	if t == nil {
		return nil
	}
	for _, b := range t.Bindings() {
		if err := catalog.Validate(b.Predicate); err != nil {
			return fmt.Errorf("binding %s (%s): %w", b.Name, b.Sequence, err)
		}
	}
	return nil
}

// SessionID returns the identifier attached to this dispatcher's logs.
func (d *Dispatcher) SessionID() string {
	return d.sessionID
}

// Metrics returns the metrics collector, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// HandleKey feeds one key event.
func (d *Dispatcher) HandleKey(ev key.Event) (Result, error) {
	res, err := d.dispatch(func() (Result, error) {
		return d.feedLocked(ev, "")
	})
	d.recordKey(res, err)
	return res, err
}

// HandlePaste feeds a bracketed paste payload.
func (d *Dispatcher) HandlePaste(data string) (Result, error) {
	res, err := d.dispatch(func() (Result, error) {
		return d.feedLocked(key.Paste(), data)
	})
	d.recordKey(res, err)
	return res, err
}

func (d *Dispatcher) recordKey(res Result, err error) {
	if d.metrics != nil && !errors.Is(err, ErrClosed) {
		d.metrics.RecordKey(res.Status)
	}
}

// FlushPending resolves a pending sequence as if its timeout had elapsed:
// the best exact match in the current state fires, otherwise the keys are
// discarded. Without pending keys it returns a NoMatch result.
func (d *Dispatcher) FlushPending() (Result, error) {
	return d.dispatch(func() (Result, error) {
		if d.pending.IsEmpty() {
			return Result{Status: NoMatch, Keys: key.NewSequence()}, nil
		}
		return d.flushLocked()
	})
}

// SetArg sets the repeat count passed to the next handler that fires.
func (d *Dispatcher) SetArg(n int) {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	d.arg = n
}

// Pending returns a copy of the keys awaiting completion.
func (d *Dispatcher) Pending() *key.Sequence {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.Clone()
}

// State returns the current predicate state of the host.
func (d *Dispatcher) State() filter.State {
	return Snapshot(d.host)
}

// Mode returns the effective mode of the host.
func (d *Dispatcher) Mode() Mode {
	return ModeOf(d.State())
}

// Bindings lists every binding in evaluation order.
func (d *Dispatcher) Bindings() []keymap.LayeredBinding {
	return d.merged.Bindings()
}

// Close stops the pending-sequence timer. Later calls return ErrClosed.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.stopTimerLocked()
	d.pending.Clear()
	return nil
}

// dispatch runs fn under the dispatch lock and then applies configuration
// changes queued while it ran.
func (d *Dispatcher) dispatch(fn func() (Result, error)) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Result{}, ErrClosed
	}

	d.cfgMu.Lock()
	d.dispatching = true
	d.cfgMu.Unlock()

	defer d.drainDeferredLocked()
	return fn()
}

func (d *Dispatcher) drainDeferredLocked() {
	for {
		d.cfgMu.Lock()
		ops := d.deferred
		d.deferred = nil
		if len(ops) == 0 {
			d.dispatching = false
			d.cfgMu.Unlock()
			return
		}
		d.cfgMu.Unlock()

		for _, op := range ops {
			if err := op(); err != nil {
				d.logger.Warn("deferred configuration change failed: %v", err)
			}
		}
	}
}

// configure applies op now, or after the current event if a dispatch is in
// progress (for example when a handler runs bind-key).
func (d *Dispatcher) configure(op func() error) error {
	d.cfgMu.Lock()
	if d.dispatching {
		d.deferred = append(d.deferred, op)
		d.cfgMu.Unlock()
		return nil
	}
	d.cfgMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	return op()
}

// feedLocked appends ev to the pending keys and acts on the resolution.
func (d *Dispatcher) feedLocked(ev key.Event, data string) (Result, error) {
	d.stopTimerLocked()
	d.pending.Add(ev)

	state := Snapshot(d.host)
	res := d.merged.Resolve(d.pending, d.catalog.Env(state))
	d.logger.Debug("resolve %s in %s: %s", d.pending, ModeOf(state), res.Status)

	switch res.Status {
	case keymap.Match:
		keys := d.takePendingLocked()
		return d.fireLocked(res.Binding, res.Layer, keys, data)

	case keymap.Pending:
		d.armTimerLocked()
		return Result{Status: Pending, Keys: d.pending.Clone()}, nil
	}

	// The new key broke a pending sequence: settle the keys before it as a
	// timeout would, then resolve the new key on its own.
	if d.pending.Len() > 1 {
		d.pending = key.NewSequenceFrom(d.pending.Events[:d.pending.Len()-1]...)
		if res, err := d.flushLocked(); err != nil {
			return res, err
		}
		return d.feedLocked(ev, data)
	}

	keys := d.takePendingLocked()
	return Result{Status: NoMatch, Keys: keys}, nil
}

// flushLocked fires the fallback for the pending keys in the current state.
func (d *Dispatcher) flushLocked() (Result, error) {
	d.stopTimerLocked()
	keys := d.takePendingLocked()

	res := d.merged.Resolve(keys, d.catalog.Env(Snapshot(d.host)))
	b := res.Binding
	if res.Status == keymap.Pending {
		b = res.Fallback
	}
	if b == nil {
		d.logger.Debug("discarding %s", keys)
		return Result{Status: Discarded, Keys: keys}, nil
	}
	return d.fireLocked(b, res.Layer, keys, "")
}

func (d *Dispatcher) takePendingLocked() *key.Sequence {
	keys := d.pending.Clone()
	d.pending = key.NewSequence()
	return keys
}

// fireLocked runs a binding's handler with a fresh context.
func (d *Dispatcher) fireLocked(b *keymap.Binding, layer string, keys *key.Sequence, data string) (Result, error) {
	d.cfgMu.Lock()
	arg := d.arg
	d.arg = 0
	d.cfgMu.Unlock()

	ctx := execctx.New().
		WithHost(d.host).
		WithKeys(keys).
		WithData(data).
		WithCount(arg).
		WithExecutor(d.executor).
		WithClipboard(d.clipboard).
		WithLogger(d.logger)

	label := b.Label()
	start := time.Now()
	err := d.invoke(b, ctx)
	if d.metrics != nil {
		d.metrics.RecordFire(label, time.Since(start), err != nil)
	}

	result := Result{Status: Fired, Binding: label, Layer: layer, Keys: keys}
	if err != nil {
		d.logger.Warn("binding %s (%s) failed: %v", label, keys, err)
		return result, fmt.Errorf("binding %s: %w", label, err)
	}
	d.logger.Debug("fired %s/%s for %s", layer, label, keys)
	return result, nil
}

func (d *Dispatcher) invoke(b *keymap.Binding, ctx *execctx.Context) (err error) {
	if !d.recoverPanics {
		return b.Handler(ctx)
	}
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.Error("handler panic in %s: %v\n%s", b.Label(), r, stack[:n])
			if d.metrics != nil {
				d.metrics.RecordPanic(b.Label())
			}
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return b.Handler(ctx)
}

func (d *Dispatcher) armTimerLocked() {
	d.pendingGen++
	gen := d.pendingGen
	d.timer = time.AfterFunc(d.timeout, func() { d.expire(gen) })
}

func (d *Dispatcher) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// expire is the timer callback. A stale generation means the sequence was
// already completed, flushed or extended.
func (d *Dispatcher) expire(gen uint64) {
	res, err := d.dispatch(func() (Result, error) {
		if gen != d.pendingGen || d.pending.IsEmpty() {
			return Result{Status: NoMatch}, nil
		}
		if d.metrics != nil {
			d.metrics.RecordTimeout()
		}
		return d.flushLocked()
	})
	if err != nil && !errors.Is(err, ErrClosed) {
		d.logger.Warn("pending sequence timeout: %v", err)
		return
	}
	if res.Status == Fired {
		d.logger.Debug("timeout fired %s", res.Binding)
	}
}
