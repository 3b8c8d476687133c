package dispatcher_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dshills/muxkeys/internal/dispatcher"
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/input/keymap"
	"github.com/dshills/muxkeys/internal/sim"
)

func newDispatcher(t *testing.T, h *sim.Host, opts ...dispatcher.Option) *dispatcher.Dispatcher {
	t.Helper()
	d, err := dispatcher.New(h, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// press feeds each key name and fails the test on a handler error.
func press(t *testing.T, d *dispatcher.Dispatcher, names ...string) []dispatcher.Result {
	t.Helper()
	results := make([]dispatcher.Result, 0, len(names))
	for _, name := range names {
		res, err := d.HandleKey(key.MustParse(name))
		if err != nil {
			t.Fatalf("HandleKey(%s) error = %v", name, err)
		}
		results = append(results, res)
	}
	return results
}

// pressOne feeds one key and returns its result.
func pressOne(t *testing.T, d *dispatcher.Dispatcher, name string) dispatcher.Result {
	t.Helper()
	return press(t, d, name)[0]
}

type execCall struct {
	Command string
	Args    []string
}

// recorder is a CommandExecutor that records calls.
type recorder struct {
	mu    sync.Mutex
	calls []execCall
	err   error
	hook  func(name string)
}

func (r *recorder) Execute(_ *execctx.Context, name string, args []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, execCall{Command: name, Args: args})
	hook, err := r.hook, r.err
	r.mu.Unlock()
	if hook != nil {
		hook(name)
	}
	return err
}

func (r *recorder) Calls() []execCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]execCall(nil), r.calls...)
}

func (r *recorder) Commands() []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, c.Command)
	}
	return out
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func countNamed(d *dispatcher.Dispatcher, layer, name string) int {
	n := 0
	for _, b := range d.Bindings() {
		if b.Layer == layer && b.Name == name {
			n++
		}
	}
	return n
}

func countLayer(d *dispatcher.Dispatcher, layer string) int {
	n := 0
	for _, b := range d.Bindings() {
		if b.Layer == layer {
			n++
		}
	}
	return n
}

// newLineEditorTable binds C-w to delete-word plus each extra key to
// self-insert.
func newLineEditorTable(t *testing.T, extra ...string) *keymap.Table {
	t.Helper()
	table := keymap.NewTable(dispatcher.LayerLineEditor, filter.DefaultCatalog())
	_, err := table.Register(key.MustParseSequence("C-w"), filter.Always,
		func(*execctx.Context) error { return nil },
		keymap.WithName("delete-word"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	for _, k := range extra {
		_, err := table.Register(key.MustParseSequence(k), filter.Always,
			func(*execctx.Context) error { return nil },
			keymap.WithName("self-insert"))
		if err != nil {
			t.Fatalf("Register(%s) error = %v", k, err)
		}
	}
	return table
}
