package dispatcher_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/muxkeys/internal/dispatcher"
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/sim"
)

func TestAddBindingPrefixed(t *testing.T) {
	h := sim.NewHost(1)
	rec := &recorder{}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec))

	if err := d.AddBinding("c", "new-window", []string{"-n", "logs"}, true); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}

	// Without the prefix c is an ordinary key.
	press(t, d, "c")
	if len(rec.Calls()) != 0 {
		t.Fatalf("command ran without prefix: %v", rec.Calls())
	}

	results := press(t, d, "C-b", "c")
	if res := results[1]; res.Binding != "new-window" || res.Layer != dispatcher.LayerCustom {
		t.Errorf("prefixed c = %s/%s, want custom/new-window", res.Layer, res.Binding)
	}

	want := []execCall{{Command: "new-window", Args: []string{"-n", "logs"}}}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if h.ClientState().HasPrefix() {
		t.Error("prefix still armed after the binding fired")
	}
	if diff := cmp.Diff([]string{"c"}, h.ActivePane().Proc().Keys()); diff != "" {
		t.Errorf("forwarded keys mismatch (-want +got):\n%s", diff)
	}
}

func TestAddBindingRootTable(t *testing.T) {
	h := sim.NewHost(1)
	rec := &recorder{}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec))

	if err := d.AddBinding("M-Left", "select-pane", []string{"-L"}, false); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}

	press(t, d, "M-Left")
	if diff := cmp.Diff([]string{"select-pane"}, rec.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	// Blocked while the prefix is armed.
	press(t, d, "C-b", "M-Left")
	if got := len(rec.Calls()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}

	// Blocked while the command line has focus.
	h.SetFocus(execctx.FocusCommand)
	press(t, d, "M-Left")
	if got := len(rec.Calls()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	h.SetFocus(execctx.FocusPane)

	// Blocked while a confirmation is pending.
	h.ClientState().Confirm("kill-server", "kill-server? (y/n)")
	press(t, d, "M-Left")
	if got := len(rec.Calls()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestAddBindingSingleOwner(t *testing.T) {
	h := sim.NewHost(1)
	rec := &recorder{}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec))

	for _, cmd := range []string{"first", "second", "third"} {
		if err := d.AddBinding("x", cmd, nil, true); err != nil {
			t.Fatalf("AddBinding(%s) error = %v", cmd, err)
		}
	}

	if got := countLayer(d, dispatcher.LayerCustom); got != 1 {
		t.Errorf("custom bindings = %d, want 1", got)
	}
	bindings := d.CustomBindings()
	if len(bindings) != 1 || bindings[0].Command != "third" {
		t.Fatalf("CustomBindings() = %+v, want only third", bindings)
	}

	press(t, d, "C-b", "x")
	if diff := cmp.Diff([]string{"third"}, rec.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestAddBindingEquivalentNamesShareSlot(t *testing.T) {
	d := newDispatcher(t, sim.NewHost(1), dispatcher.WithExecutor(&recorder{}))

	if err := d.AddBinding("C-m", "old", nil, true); err != nil {
		t.Fatalf("AddBinding(C-m) error = %v", err)
	}
	if err := d.AddBinding("Enter", "new", nil, true); err != nil {
		t.Fatalf("AddBinding(Enter) error = %v", err)
	}

	if got := countLayer(d, dispatcher.LayerCustom); got != 1 {
		t.Errorf("custom bindings = %d, want 1", got)
	}
	if got := countNamed(d, dispatcher.LayerCustom, "new"); got != 1 {
		t.Errorf("bindings named new = %d, want 1", got)
	}
}

func TestAddBindingSameKeyBothTables(t *testing.T) {
	h := sim.NewHost(1)
	rec := &recorder{}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec))

	if err := d.AddBinding("M-n", "root-next", nil, false); err != nil {
		t.Fatalf("AddBinding(root) error = %v", err)
	}
	if err := d.AddBinding("M-n", "prefix-next", nil, true); err != nil {
		t.Fatalf("AddBinding(prefix) error = %v", err)
	}

	press(t, d, "M-n", "C-b", "M-n")

	want := []string{"root-next", "prefix-next"}
	if diff := cmp.Diff(want, rec.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestAddBindingInvalidKeyName(t *testing.T) {
	d := newDispatcher(t, sim.NewHost(1))
	before := len(d.Bindings())

	tests := []string{"", "NotAKey", "C-", "S-x", "C-C-a"}
	for _, name := range tests {
		err := d.AddBinding(name, "noop", nil, false)
		if !errors.Is(err, dispatcher.ErrInvalidKeyName) {
			t.Errorf("AddBinding(%q) error = %v, want ErrInvalidKeyName", name, err)
		}
	}
	if err := d.AddBinding("NotAKey", "noop", nil, false); !errors.Is(err, key.ErrInvalidSpec) {
		t.Errorf("AddBinding(NotAKey) error = %v, want wrapped ErrInvalidSpec", err)
	}

	if got := len(d.Bindings()); got != before {
		t.Errorf("bindings = %d after failed adds, want %d", got, before)
	}
}

func TestRemoveBinding(t *testing.T) {
	h := sim.NewHost(1)
	rec := &recorder{}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec))

	if err := d.AddBinding("x", "kill-pane", nil, true); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}

	// Wrong table: no-op.
	d.RemoveBinding("x", false)
	if got := len(d.CustomBindings()); got != 1 {
		t.Fatalf("CustomBindings() = %d after removing from the other table, want 1", got)
	}

	d.RemoveBinding("x", true)
	if got := len(d.CustomBindings()); got != 0 {
		t.Errorf("CustomBindings() = %d after remove, want 0", got)
	}
	if got := countLayer(d, dispatcher.LayerCustom); got != 0 {
		t.Errorf("custom table has %d bindings, want 0", got)
	}

	press(t, d, "C-b", "x")
	if got := rec.Calls(); len(got) != 0 {
		t.Errorf("removed binding ran: %v", got)
	}
}

func TestRemoveBindingNeverAdded(t *testing.T) {
	d := newDispatcher(t, sim.NewHost(1))
	before := len(d.Bindings())

	d.RemoveBinding("q", true)
	d.RemoveBinding("q", false)
	d.RemoveBinding("NotAKey", false)

	if got := len(d.Bindings()); got != before {
		t.Errorf("bindings = %d, want %d", got, before)
	}
}

func TestCustomBindingsSorted(t *testing.T) {
	d := newDispatcher(t, sim.NewHost(1))

	adds := []struct {
		key    string
		prefix bool
	}{
		{"z", true}, {"M-a", false}, {"a", true}, {"M-b", false},
	}
	for _, a := range adds {
		if err := d.AddBinding(a.key, "cmd", nil, a.prefix); err != nil {
			t.Fatalf("AddBinding(%q) error = %v", a.key, err)
		}
	}

	var got []string
	for _, b := range d.CustomBindings() {
		got = append(got, b.KeyName)
	}
	want := []string{"M-a", "M-b", "a", "z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomBindingWithoutExecutor(t *testing.T) {
	h := sim.NewHost(1)
	d := newDispatcher(t, h)

	if err := d.AddBinding("c", "new-window", nil, true); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}
	press(t, d, "C-b")

	_, err := d.HandleKey(key.MustParse("c"))
	if !errors.Is(err, execctx.ErrMissingExecutor) {
		t.Errorf("HandleKey(c) error = %v, want ErrMissingExecutor", err)
	}
	if h.ClientState().HasPrefix() {
		t.Error("prefix still armed after failed binding")
	}
}

func TestCustomBindingCommandError(t *testing.T) {
	h := sim.NewHost(1)
	failure := errors.New("session not found")
	rec := &recorder{err: failure}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec), dispatcher.WithMetrics())

	if err := d.AddBinding("s", "switch-client", nil, true); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}
	press(t, d, "C-b")

	_, err := d.HandleKey(key.MustParse("s"))
	if !errors.Is(err, failure) {
		t.Errorf("HandleKey(s) error = %v, want %v", err, failure)
	}
	if h.ClientState().HasPrefix() {
		t.Error("prefix still armed after failed command")
	}
	if stats := d.Metrics().BindingStats("switch-client"); stats == nil || stats.ErrorCount != 1 {
		t.Errorf("switch-client stats = %+v, want one error", stats)
	}
}

func TestAddBindingFromHandlerIsDeferred(t *testing.T) {
	h := sim.NewHost(1)
	var d *dispatcher.Dispatcher
	rec := &recorder{}
	rec.hook = func(name string) {
		if name != "bind" {
			return
		}
		if err := d.AddBinding("y", "yank", nil, true); err != nil {
			t.Errorf("AddBinding() from handler error = %v", err)
		}
		d.RemoveBinding("b", true)
	}
	d = newDispatcher(t, h, dispatcher.WithExecutor(rec))

	if err := d.AddBinding("b", "bind", nil, true); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}
	press(t, d, "C-b", "b")

	var keys []string
	for _, cb := range d.CustomBindings() {
		keys = append(keys, cb.KeyName)
	}
	if diff := cmp.Diff([]string{"y"}, keys); diff != "" {
		t.Errorf("custom bindings mismatch (-want +got):\n%s", diff)
	}

	press(t, d, "C-b", "y")
	if diff := cmp.Diff([]string{"bind", "yank"}, rec.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomBindingShadowsBuiltin(t *testing.T) {
	h := sim.NewHost(1)
	pane := h.ActivePane()
	pane.EnterScrollBuffer()
	rec := &recorder{}
	d := newDispatcher(t, h, dispatcher.WithExecutor(rec))

	if err := d.AddBinding("q", "custom-quit", nil, false); err != nil {
		t.Fatalf("AddBinding() error = %v", err)
	}

	res := pressOne(t, d, "q")
	if res.Layer != dispatcher.LayerCustom {
		t.Errorf("q fired from %q, want custom", res.Layer)
	}
	if !pane.InScrollBuffer() {
		t.Error("builtin exit ran despite the custom binding")
	}
}
