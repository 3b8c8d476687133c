package keymap

import (
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
)

// BindingID identifies a binding within its table.
type BindingID uint64

// Handler runs when a binding fires.
type Handler func(ctx *execctx.Context) error

// Binding represents a single key-to-handler mapping.
type Binding struct {
	// ID is assigned by Register.
	ID BindingID

	// Sequence is the key sequence that triggers this binding.
	Sequence *key.Sequence

	// Predicate gates the binding on live state.
	Predicate filter.Predicate

	// Handler is invoked when the binding fires.
	Handler Handler

	// Order is the registration order within the table; later wins ties.
	Order uint64

	// Name identifies the binding in logs and listings.
	Name string

	// Description documents the binding for list-keys.
	Description string
}

// Option configures a binding at registration.
type Option func(*Binding)

// WithName sets the binding name.
func WithName(name string) Option {
	return func(b *Binding) { b.Name = name }
}

// WithDescription sets the binding description.
func WithDescription(desc string) Option {
	return func(b *Binding) { b.Description = desc }
}

// IsWildcard reports whether the sequence contains the Any token.
func (b *Binding) IsWildcard() bool {
	return b.Sequence.HasWildcard()
}

// Label returns the name, or the key sequence if unnamed.
func (b *Binding) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Sequence.String()
}

// clone returns a copy that shares no mutable state with b.
func (b *Binding) clone() Binding {
	c := *b
	c.Sequence = b.Sequence.Clone()
	return c
}
