package dispatcher

import (
	"fmt"

	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/input/keymap"
)

// prefixGate allows entering prefix mode only from a plain, unfocused state.
var prefixGate = filter.Not(filter.Or(hasPrefix, commandFocused, promptFocused, waiting))

// EnterPrefixBinding names the binding installed for the prefix chord.
const EnterPrefixBinding = "enter-prefix"

// Prefix returns the current prefix chord.
func (d *Dispatcher) Prefix() *key.Sequence {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	return d.prefix.Clone()
}

// SetPrefix replaces the prefix chord. The old enter-prefix binding is
// swapped for the new one in a single table operation, so no key is ever
// resolved with zero or two prefix bindings installed.
func (d *Dispatcher) SetPrefix(seq *key.Sequence) error {
	if seq.IsEmpty() {
		return keymap.ErrEmptySequence
	}
	if seq.HasWildcard() {
		return fmt.Errorf("%w: prefix %s contains Any", ErrInvalidKeyName, seq)
	}
	seq = seq.Clone()
	return d.configure(func() error {
		return d.installPrefix(seq)
	})
}

// SetPrefixName parses name and sets it as the prefix chord.
func (d *Dispatcher) SetPrefixName(name string) error {
	seq, err := key.ParseSequence(name)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidKeyName, name, err)
	}
	return d.SetPrefix(seq)
}

// installPrefix must run with mu held (or before the dispatcher is shared).
func (d *Dispatcher) installPrefix(seq *key.Sequence) error {
	d.cfgMu.Lock()
	old := d.prefixID
	d.cfgMu.Unlock()

	id, err := d.prefixes.Replace(old, seq, prefixGate, enterPrefix,
		keymap.WithName(EnterPrefixBinding),
		keymap.WithDescription("arm the prefix for the next key"))
	if err != nil {
		return err
	}

	d.cfgMu.Lock()
	d.prefix = seq
	d.prefixID = id
	d.cfgMu.Unlock()

	d.logger.Info("prefix set to %s", seq)
	return nil
}

func enterPrefix(ctx *execctx.Context) error {
	ctx.Client.SetHasPrefix(true)
	return nil
}
