package config

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeBinder records the calls made against it.
type fakeBinder struct {
	ops    []string
	failOn string
}

func (f *fakeBinder) SetPrefixName(name string) error {
	f.ops = append(f.ops, "prefix "+name)
	return nil
}

func (f *fakeBinder) AddBinding(keyName, command string, args []string, needsPrefix bool) error {
	if keyName == f.failOn {
		return errors.New("rejected")
	}
	f.ops = append(f.ops, fmt.Sprintf("bind %s %v %s %s", keyName, needsPrefix, command, strings.Join(args, " ")))
	return nil
}

func (f *fakeBinder) RemoveBinding(keyName string, needsPrefix bool) {
	f.ops = append(f.ops, fmt.Sprintf("unbind %s %v", keyName, needsPrefix))
}

func TestApply(t *testing.T) {
	b := &fakeBinder{}
	if err := Apply(b, sampleConfig); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []string{
		"prefix C-a",
		"bind c true new-window ",
		"bind M-Left false select-pane -L",
	}
	if diff := cmp.Diff(want, b.ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyCollectsErrors(t *testing.T) {
	b := &fakeBinder{failOn: "c"}
	err := Apply(b, sampleConfig)
	if err == nil || !strings.Contains(err.Error(), `binding "c"`) {
		t.Fatalf("Apply() error = %v, want failure for c", err)
	}
	// The remaining binding is still applied.
	if got := b.ops[len(b.ops)-1]; got != "bind M-Left false select-pane -L" {
		t.Errorf("last op = %q", got)
	}
}

func TestDiff(t *testing.T) {
	old := &Config{
		Prefix: "C-a",
		Bindings: []BindingConfig{
			{Key: "c", Command: "new-window"},
			{Key: "x", Command: "kill-pane"},
			{Key: "C-m", Command: "select-layout", Args: []string{"tiled"}},
			{Key: "M-1", Command: "select-window", Args: []string{"-t", "1"}, NoPrefix: true},
		},
	}
	next := &Config{
		Prefix: "C-a",
		Bindings: []BindingConfig{
			{Key: "c", Command: "new-window"},
			{Key: "Enter", Command: "select-layout", Args: []string{"tiled"}},
			{Key: "M-1", Command: "select-window", Args: []string{"-t", "0"}, NoPrefix: true},
			{Key: "M-1", Command: "last-window"},
		},
	}

	want := Changes{
		Unbind: []BindingConfig{{Key: "x", Command: "kill-pane"}},
		Bind: []BindingConfig{
			{Key: "M-1", Command: "select-window", Args: []string{"-t", "0"}, NoPrefix: true},
			{Key: "M-1", Command: "last-window"},
		},
	}
	if diff := cmp.Diff(want, Diff(old, next)); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffPrefix(t *testing.T) {
	tests := []struct {
		old, next string
		want      string
	}{
		{"", "", ""},
		{"", "C-b", ""},
		{"C-b", "", ""},
		{"C-a", "C-a", ""},
		{"", "C-a", "C-a"},
		{"C-a", "", DefaultPrefix},
		{"^A", "C-a", ""},
	}

	for _, tt := range tests {
		got := Diff(&Config{Prefix: tt.old}, &Config{Prefix: tt.next}).Prefix
		if got != tt.want {
			t.Errorf("Diff(%q -> %q).Prefix = %q, want %q", tt.old, tt.next, got, tt.want)
		}
	}
}

func TestDiffIdentical(t *testing.T) {
	if ch := Diff(sampleConfig, sampleConfig); !ch.IsEmpty() {
		t.Errorf("Diff(same) = %+v, want empty", ch)
	}
}

func TestApplyChangesOrder(t *testing.T) {
	b := &fakeBinder{}
	ch := Changes{
		Prefix: "C-q",
		Unbind: []BindingConfig{{Key: "x", Command: "kill-pane"}},
		Bind:   []BindingConfig{{Key: "y", Command: "copy", NoPrefix: true}},
	}
	if err := ApplyChanges(b, ch); err != nil {
		t.Fatalf("ApplyChanges() error = %v", err)
	}

	want := []string{"unbind x true", "prefix C-q", "bind y false copy "}
	if diff := cmp.Diff(want, b.ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlay(t *testing.T) {
	base := &Config{
		Prefix: "C-a",
		Bindings: []BindingConfig{
			{Key: "C-m", Command: "new-window"},
			{Key: "x", Command: "kill-pane"},
			{Key: "x", Command: "kill-pane", NoPrefix: true},
		},
	}
	extra := []BindingConfig{{Key: "Enter", Command: "lua-enter"}}

	got := Overlay(base, extra)
	want := &Config{
		Prefix: "C-a",
		Bindings: []BindingConfig{
			{Key: "x", Command: "kill-pane"},
			{Key: "x", Command: "kill-pane", NoPrefix: true},
			{Key: "Enter", Command: "lua-enter"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overlay() mismatch (-want +got):\n%s", diff)
	}
	if len(base.Bindings) != 3 {
		t.Error("Overlay() modified its base")
	}
}

func TestDiffOverlayKeepsExtraSlots(t *testing.T) {
	extra := []BindingConfig{{Key: "h", Command: "hello"}}
	old := &Config{Bindings: []BindingConfig{
		{Key: "h", Command: "split-window"},
		{Key: "v", Command: "split-window", Args: []string{"-v"}},
	}}
	next := &Config{Bindings: []BindingConfig{
		{Key: "v", Command: "split-window", Args: []string{"-v"}},
	}}

	ch := Diff(Overlay(old, extra), Overlay(next, extra))
	if !ch.IsEmpty() {
		t.Errorf("Diff() = %+v, want no changes", ch)
	}

	changed := &Config{Bindings: []BindingConfig{{Key: "h", Command: "select-pane"}}}
	ch = Diff(Overlay(old, extra), Overlay(changed, extra))
	for _, b := range ch.Bind {
		if b.Key == "h" {
			t.Errorf("Diff() rebinds h to %s over the extra binding", b.Command)
		}
	}
}
