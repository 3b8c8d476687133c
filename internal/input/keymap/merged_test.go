package keymap

import (
	"testing"

	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
)

func env(state filter.State) filter.Env {
	return filter.DefaultCatalog().Env(state)
}

func mustRegister(t *testing.T, tbl *Table, seq string, pred filter.Predicate, name string) BindingID {
	t.Helper()
	id, err := tbl.Register(key.MustParseSequence(seq), pred, nop, WithName(name))
	if err != nil {
		t.Fatalf("Register(%q) error = %v", seq, err)
	}
	return id
}

func TestResolveLiteralBeatsWildcard(t *testing.T) {
	builtins := NewTable("builtins", filter.DefaultCatalog())
	custom := NewTable("custom", filter.DefaultCatalog())
	mustRegister(t, builtins, "Any", hasPrefix, "swallow")
	mustRegister(t, custom, "%", hasPrefix, "split")
	m := NewMerged(Layer{Table: builtins}, Layer{Table: custom})

	r := m.Resolve(key.MustParseSequence("%"), env(filter.State{HasPrefix: true}))
	if r.Status != Match || r.Binding.Name != "split" || r.Layer != "custom" {
		t.Fatalf("Resolve(%%) = %+v, want split in custom", r)
	}

	r = m.Resolve(key.MustParseSequence("x"), env(filter.State{HasPrefix: true}))
	if r.Status != Match || r.Binding.Name != "swallow" {
		t.Fatalf("Resolve(x) = %+v, want swallow", r)
	}

	r = m.Resolve(key.MustParseSequence("x"), env(filter.State{}))
	if r.Status != NoMatch || r.Binding != nil {
		t.Fatalf("Resolve(x) without prefix = %+v, want NoMatch", r)
	}
}

func TestResolveLaterLayerWins(t *testing.T) {
	first := NewTable("first", filter.DefaultCatalog())
	second := NewTable("second", filter.DefaultCatalog())
	mustRegister(t, first, "q", filter.Always, "first")
	mustRegister(t, second, "q", filter.Always, "second")

	r := NewMerged(Layer{Table: first}, Layer{Table: second}).
		Resolve(key.MustParseSequence("q"), env(filter.State{}))
	if r.Binding == nil || r.Binding.Name != "second" {
		t.Fatalf("Resolve = %+v, want second", r)
	}
}

func TestResolveLaterRegistrationWinsWithinTable(t *testing.T) {
	tbl := NewTable("t", filter.DefaultCatalog())
	// Distinct sequences that both accept "x x".
	mustRegister(t, tbl, "Any x", filter.Always, "early")
	mustRegister(t, tbl, "x Any", filter.Always, "late")

	r := NewMerged(Layer{Table: tbl}).Resolve(key.MustParseSequence("x x"), env(filter.State{}))
	if r.Binding == nil || r.Binding.Name != "late" {
		t.Fatalf("Resolve = %+v, want late", r)
	}
}

func TestResolveNilCatalogTable(t *testing.T) {
	tbl := NewTable("t", nil)
	mustRegister(t, tbl, "Any", filter.Always, "only")
	if _, err := tbl.Register(key.MustParseSequence("Any"), filter.Never, nop); err == nil {
		t.Error("a table without a catalog should treat equal sequences as ambiguous")
	}
	r := NewMerged(Layer{Table: tbl}).Resolve(key.MustParseSequence("x"), env(filter.State{}))
	if r.Binding == nil || r.Binding.Name != "only" {
		t.Fatalf("Resolve = %+v, want only", r)
	}
}

func TestResolvePending(t *testing.T) {
	tbl := NewTable("t", filter.DefaultCatalog())
	mustRegister(t, tbl, "C-x", filter.Always, "short")
	mustRegister(t, tbl, "C-x C-s", filter.Always, "long")
	m := NewMerged(Layer{Table: tbl})

	r := m.Resolve(key.MustParseSequence("C-x"), env(filter.State{}))
	if r.Status != Pending {
		t.Fatalf("Resolve(C-x) status = %v, want pending", r.Status)
	}
	if r.Binding != nil || r.Fallback == nil || r.Fallback.Name != "short" {
		t.Fatalf("Resolve(C-x) = %+v, want fallback short", r)
	}

	r = m.Resolve(key.MustParseSequence("C-x C-s"), env(filter.State{}))
	if r.Status != Match || r.Binding.Name != "long" {
		t.Fatalf("Resolve(C-x C-s) = %+v, want long", r)
	}

	r = m.Resolve(key.MustParseSequence("C-x q"), env(filter.State{}))
	if r.Status != NoMatch {
		t.Fatalf("Resolve(C-x q) = %+v, want NoMatch", r)
	}
}

func TestResolvePendingFallsBackToWildcard(t *testing.T) {
	tbl := NewTable("t", filter.DefaultCatalog())
	mustRegister(t, tbl, "Any", filter.Always, "forward")
	mustRegister(t, tbl, "C-a C-a", filter.Always, "double")

	r := NewMerged(Layer{Table: tbl}).Resolve(key.MustParseSequence("C-a"), env(filter.State{}))
	if r.Status != Pending || r.Fallback == nil || r.Fallback.Name != "forward" {
		t.Fatalf("Resolve(C-a) = %+v, want pending with forward fallback", r)
	}
}

func TestResolveIgnoresFalsePredicates(t *testing.T) {
	tbl := NewTable("t", filter.DefaultCatalog())
	mustRegister(t, tbl, "C-x C-s", hasPrefix, "long")
	mustRegister(t, tbl, "C-x", filter.Not(hasPrefix), "short")

	r := NewMerged(Layer{Table: tbl}).Resolve(key.MustParseSequence("C-x"), env(filter.State{}))
	if r.Status != Match || r.Binding.Name != "short" {
		t.Fatalf("Resolve = %+v, want immediate short match", r)
	}
}

func TestResolveGate(t *testing.T) {
	editor := NewTable("line-editor", filter.DefaultCatalog())
	mustRegister(t, editor, "Any", filter.Always, "insert")
	m := NewMerged(Layer{Table: editor, Gate: focused})

	if r := m.Resolve(key.MustParseSequence("a"), env(filter.State{})); r.Status != NoMatch {
		t.Errorf("gated layer matched while closed: %+v", r)
	}
	if r := m.Resolve(key.MustParseSequence("a"), env(filter.State{CommandFocused: true})); r.Status != Match {
		t.Errorf("gated layer did not match while open: %+v", r)
	}
}

func TestResolvePasteLiteralBeatsWildcard(t *testing.T) {
	tbl := NewTable("t", filter.DefaultCatalog())
	mustRegister(t, tbl, "Any", filter.Always, "forward")
	mustRegister(t, tbl, "BracketedPaste", filter.Always, "paste")
	m := NewMerged(Layer{Table: tbl})

	pasted := key.NewSequenceFrom(key.Paste())
	if r := m.Resolve(pasted, env(filter.State{})); r.Binding == nil || r.Binding.Name != "paste" {
		t.Errorf("Resolve(paste) = %+v, want paste", r)
	}

	swallow := NewTable("s", filter.DefaultCatalog())
	mustRegister(t, swallow, "Any", filter.Always, "swallow")
	m = NewMerged(Layer{Table: swallow})
	if r := m.Resolve(pasted, env(filter.State{})); r.Binding == nil || r.Binding.Name != "swallow" {
		t.Errorf("Resolve(paste) without literal = %+v, want swallow", r)
	}
}

func TestMergedBindings(t *testing.T) {
	a := NewTable("a", filter.DefaultCatalog())
	b := NewTable("b", filter.DefaultCatalog())
	mustRegister(t, a, "x", filter.Always, "ax")
	mustRegister(t, b, "y", filter.Always, "by")
	mustRegister(t, a, "z", hasPrefix, "az")

	got := NewMerged(Layer{Table: a}, Layer{Table: nil}, Layer{Table: b}).Bindings()
	want := []string{"a/ax", "a/az", "b/by"}
	if len(got) != len(want) {
		t.Fatalf("Bindings() = %d entries, want %d", len(got), len(want))
	}
	for i, lb := range got {
		if s := lb.Layer + "/" + lb.Name; s != want[i] {
			t.Errorf("Bindings()[%d] = %s, want %s", i, s, want[i])
		}
	}
}

func TestResolveEmpty(t *testing.T) {
	if r := NewMerged().Resolve(key.NewSequence(), env(filter.State{})); r.Status != NoMatch {
		t.Errorf("Resolve(empty) = %+v", r)
	}
}
