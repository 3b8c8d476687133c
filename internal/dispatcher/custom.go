package dispatcher

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/input/keymap"
)

// recordKey identifies one custom binding slot. key is the canonical
// sequence, so "C-m" and "Enter" share a slot.
type recordKey struct {
	needsPrefix bool
	key         string
}

// CustomBinding is a user binding of a key to a command.
type CustomBinding struct {
	NeedsPrefix bool
	KeyName     string
	Command     string
	Args        []string

	// ID is the binding's entry in the custom table.
	ID keymap.BindingID
}

func customGuard(needsPrefix bool) filter.Predicate {
	blocked := filter.Or(waiting, commandFocused, promptFocused)
	if needsPrefix {
		return hasPrefix.And(filter.Not(blocked))
	}
	return filter.Not(hasPrefix).And(filter.Not(blocked))
}

// AddBinding binds keyName to command. Any earlier binding for the same
// key and prefix flag is replaced. When called from a handler the change
// takes effect after the current key event.
func (d *Dispatcher) AddBinding(keyName, command string, args []string, needsPrefix bool) error {
	seq, err := key.ParseSequence(keyName)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidKeyName, keyName, err)
	}
	rec := &CustomBinding{
		NeedsPrefix: needsPrefix,
		KeyName:     keyName,
		Command:     command,
		Args:        slices.Clone(args),
	}
	rk := recordKey{needsPrefix: needsPrefix, key: seq.String()}

	return d.configure(func() error {
		d.cfgMu.Lock()
		old := d.records[rk]
		d.cfgMu.Unlock()

		var oldID keymap.BindingID
		if old != nil {
			oldID = old.ID
		}
		id, err := d.custom.Replace(oldID, seq, customGuard(needsPrefix), runCommand(command, rec.Args),
			keymap.WithName(command),
			keymap.WithDescription(describeCommand(command, rec.Args)))
		if err != nil {
			return fmt.Errorf("binding %s: %w", keyName, err)
		}
		rec.ID = id

		d.cfgMu.Lock()
		d.records[rk] = rec
		d.cfgMu.Unlock()

		d.logger.WithFields(map[string]any{
			"key":    keyName,
			"prefix": needsPrefix,
		}).Info("bound %s", describeCommand(command, rec.Args))
		return nil
	})
}

// RemoveBinding removes the custom binding for keyName. Removing a key that
// was never bound, or cannot be parsed, does nothing.
func (d *Dispatcher) RemoveBinding(keyName string, needsPrefix bool) {
	seq, err := key.ParseSequence(keyName)
	if err != nil {
		return
	}
	rk := recordKey{needsPrefix: needsPrefix, key: seq.String()}

	_ = d.configure(func() error {
		d.cfgMu.Lock()
		rec, ok := d.records[rk]
		delete(d.records, rk)
		d.cfgMu.Unlock()
		if !ok {
			return nil
		}
		d.custom.Unregister(rec.ID)
		d.logger.WithFields(map[string]any{
			"key":    keyName,
			"prefix": needsPrefix,
		}).Info("unbound %s", rec.Command)
		return nil
	})
}

// CustomBindings returns the custom bindings, prefixed ones last, each
// group ordered by key name.
func (d *Dispatcher) CustomBindings() []CustomBinding {
	d.cfgMu.Lock()
	out := make([]CustomBinding, 0, len(d.records))
	for _, rec := range d.records {
		cb := *rec
		cb.Args = slices.Clone(rec.Args)
		out = append(out, cb)
	}
	d.cfgMu.Unlock()

	slices.SortFunc(out, func(a, b CustomBinding) int {
		if a.NeedsPrefix != b.NeedsPrefix {
			if a.NeedsPrefix {
				return 1
			}
			return -1
		}
		return strings.Compare(a.KeyName, b.KeyName)
	})
	return out
}

// runCommand returns the handler of a custom binding. The prefix flag is
// cleared whether or not the command succeeds.
func runCommand(command string, args []string) keymap.Handler {
	return func(ctx *execctx.Context) error {
		if ctx.Client != nil {
			defer ctx.Client.SetHasPrefix(false)
		}
		if ctx.Executor == nil {
			return execctx.ErrMissingExecutor
		}
		return ctx.Executor.Execute(ctx, command, args)
	}
}

func describeCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}
