package keymap

import (
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
)

// Status is the outcome of resolving a key sequence.
type Status uint8

const (
	// NoMatch means no active binding matches, even as a prefix.
	NoMatch Status = iota
	// Match means a binding fires now.
	Match
	// Pending means more keys are needed.
	Pending
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Match:
		return "match"
	case Pending:
		return "pending"
	default:
		return "no-match"
	}
}

// Layer is one table of a Merged set behind a gate predicate.
// A zero Gate is filter.Always.
type Layer struct {
	Table *Table
	Gate  filter.Predicate
}

// Resolution is the result of Merged.Resolve.
type Resolution struct {
	Status Status

	// Binding is the binding to fire when Status is Match.
	Binding *Binding

	// Fallback is the exact match to fire if a Pending sequence times out.
	Fallback *Binding

	// Layer is the table name of Binding (or Fallback).
	Layer string
}

// Merged resolves key sequences across tables in a fixed declared order.
// Later layers win ties against earlier ones.
type Merged struct {
	layers []Layer
}

// NewMerged combines layers in evaluation order.
func NewMerged(layers ...Layer) *Merged {
	kept := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if l.Table != nil {
			kept = append(kept, l)
		}
	}
	return &Merged{layers: kept}
}

// Layers returns the layers in evaluation order.
func (m *Merged) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// LayeredBinding is a binding together with the table it lives in.
type LayeredBinding struct {
	Layer string
	Gate  filter.Predicate
	Binding
}

// Bindings lists all bindings in evaluation order.
func (m *Merged) Bindings() []LayeredBinding {
	var out []LayeredBinding
	for _, l := range m.layers {
		for _, b := range l.Table.Bindings() {
			out = append(out, LayeredBinding{Layer: l.Table.Name(), Gate: l.Gate, Binding: b})
		}
	}
	return out
}

// candidate is an active binding with the index of its layer.
type candidate struct {
	b     *Binding
	layer int
}

func (c candidate) beats(other candidate) bool {
	if other.b == nil {
		return true
	}
	if c.layer != other.layer {
		return c.layer > other.layer
	}
	return c.b.Order > other.b.Order
}

// scan accumulates exact and prefix matches for one class of bindings.
type scan struct {
	best    candidate
	pending bool
}

func (s *scan) add(c candidate, pressed *key.Sequence) {
	switch {
	case c.b.Sequence.Matches(pressed):
		if c.beats(s.best) {
			s.best = c
		}
	case c.b.Sequence.Continues(pressed):
		s.pending = true
	}
}

// Resolve decides what the pressed keys mean in env.
func (m *Merged) Resolve(pressed *key.Sequence, env filter.Env) Resolution {
	if pressed.IsEmpty() {
		return Resolution{Status: NoMatch}
	}

	var literal, wildcard scan
	for i, l := range m.layers {
		if !filter.Eval(l.Gate, env) {
			continue
		}
		for _, b := range l.Table.snapshot() {
			// Cheap sequence checks first; predicates only for relevant keys.
			if !b.Sequence.Matches(pressed) && !b.Sequence.Continues(pressed) {
				continue
			}
			if !filter.Eval(b.Predicate, env) {
				continue
			}
			c := candidate{b: b, layer: i}
			if b.IsWildcard() {
				wildcard.add(c, pressed)
			} else {
				literal.add(c, pressed)
			}
		}
	}

	switch {
	case literal.pending:
		fb := literal.best
		if fb.b == nil {
			fb = wildcard.best
		}
		return m.result(Pending, nil, fb)
	case literal.best.b != nil:
		return m.result(Match, literal.best.b, literal.best)
	case wildcard.pending:
		return m.result(Pending, nil, wildcard.best)
	case wildcard.best.b != nil:
		return m.result(Match, wildcard.best.b, wildcard.best)
	}
	return Resolution{Status: NoMatch}
}

func (m *Merged) result(status Status, b *Binding, named candidate) Resolution {
	r := Resolution{Status: status, Binding: b}
	if status == Pending {
		r.Fallback = named.b
	}
	if named.b != nil {
		r.Layer = m.layers[named.layer].Table.Name()
	}
	return r
}
