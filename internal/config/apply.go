package config

import (
	"errors"
	"fmt"

	"github.com/dshills/muxkeys/internal/input/key"
)

// DefaultPrefix is restored when a reload drops the prefix setting.
const DefaultPrefix = "C-b"

// Binder is the part of a dispatcher configuration is applied to.
type Binder interface {
	SetPrefixName(name string) error
	AddBinding(keyName, command string, args []string, needsPrefix bool) error
	RemoveBinding(keyName string, needsPrefix bool)
}

// Apply sets the prefix and adds every binding of cfg. All bindings are
// attempted; the returned error joins the failures.
func Apply(b Binder, cfg *Config) error {
	return ApplyChanges(b, Diff(nil, cfg))
}

// Changes is the set of operations turning one configuration into another.
type Changes struct {
	// Prefix is the new prefix chord, or "" if it is unchanged.
	Prefix string

	// Unbind lists bindings to remove, Bind bindings to add or replace.
	Unbind []BindingConfig
	Bind   []BindingConfig
}

// IsEmpty reports whether there is nothing to do.
func (c Changes) IsEmpty() bool {
	return c.Prefix == "" && len(c.Unbind) == 0 && len(c.Bind) == 0
}

// Diff computes the changes from old to next. A nil config counts as empty.
// Bindings are compared by canonical key, so "C-m" and "Enter" are the
// same slot.
func Diff(old, next *Config) Changes {
	if old == nil {
		old = &Config{}
	}
	if next == nil {
		next = &Config{}
	}

	var ch Changes
	if !samePrefix(old.Prefix, next.Prefix) {
		ch.Prefix = next.Prefix
		if ch.Prefix == "" {
			ch.Prefix = DefaultPrefix
		}
	}

	oldSlots := indexBindings(old.Bindings)
	newSlots := indexBindings(next.Bindings)

	for _, b := range old.Bindings {
		s, err := b.slot()
		if err != nil {
			continue
		}
		if _, kept := newSlots[s]; !kept {
			ch.Unbind = append(ch.Unbind, b)
		}
	}
	for _, b := range next.Bindings {
		s, err := b.slot()
		if err != nil {
			// Let AddBinding report it.
			ch.Bind = append(ch.Bind, b)
			continue
		}
		if prev, ok := oldSlots[s]; ok && prev.sameAction(b) {
			continue
		}
		ch.Bind = append(ch.Bind, b)
	}
	return ch
}

func samePrefix(a, b string) bool {
	if a == "" {
		a = DefaultPrefix
	}
	if b == "" {
		b = DefaultPrefix
	}
	ca, errA := key.NormalizeSpec(a)
	cb, errB := key.NormalizeSpec(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ca == cb
}

func indexBindings(bs []BindingConfig) map[slot]BindingConfig {
	out := make(map[slot]BindingConfig, len(bs))
	for _, b := range bs {
		if s, err := b.slot(); err == nil {
			out[s] = b
		}
	}
	return out
}

// Overlay returns a copy of base with extra bindings added after its own.
// An extra binding replaces any base binding in the same slot.
func Overlay(base *Config, extra []BindingConfig) *Config {
	out := &Config{}
	if base != nil {
		*out = *base
	}
	taken := indexBindings(extra)
	out.Bindings = make([]BindingConfig, 0, len(out.Bindings)+len(extra))
	if base != nil {
		for _, b := range base.Bindings {
			if s, err := b.slot(); err == nil {
				if _, ok := taken[s]; ok {
					continue
				}
			}
			out.Bindings = append(out.Bindings, b)
		}
	}
	out.Bindings = append(out.Bindings, extra...)
	return out
}

// ApplyChanges removes, then re-prefixes, then binds.
func ApplyChanges(b Binder, ch Changes) error {
	var errs []error

	for _, u := range ch.Unbind {
		b.RemoveBinding(u.Key, u.NeedsPrefix())
	}
	if ch.Prefix != "" {
		if err := b.SetPrefixName(ch.Prefix); err != nil {
			errs = append(errs, fmt.Errorf("prefix: %w", err))
		}
	}
	for _, a := range ch.Bind {
		if err := b.AddBinding(a.Key, a.Command, a.Args, a.NeedsPrefix()); err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", a.Key, err))
		}
	}
	return errors.Join(errs...)
}
