package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single key name into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "%", "-"
//   - Named keys: "Enter", "BSpace", "Up", "PPage", "F1", "Space", "Any"
//   - With modifiers: "C-a", "M-x", "C-M-a", "S-Up", "M-Enter"
//   - Caret notation: "^A" (same as "C-a")
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	var mods Modifier
	rest := spec

	// Strip modifier prefixes. A lone "C-" style remainder means the final
	// character is itself a hyphen, as in "C--".
	for len(rest) > 2 && rest[1] == '-' {
		mod := modifierFromPrefix(rest[0])
		if mod == ModNone {
			break
		}
		if mods.Has(mod) {
			return Event{}, fmt.Errorf("%w: repeated modifier in %q", ErrInvalidSpec, spec)
		}
		mods = mods.With(mod)
		rest = rest[2:]
	}

	if len(rest) == 2 && rest[0] == '^' && mods == ModNone {
		mods = ModCtrl
		rest = rest[1:]
	}

	return parseKeyWithModifiers(spec, rest, mods)
}

// parseKeyWithModifiers parses the key part once modifiers are stripped.
func parseKeyWithModifiers(spec, keyPart string, mods Modifier) (Event, error) {
	if strings.EqualFold(keyPart, "space") {
		return NewRuneEvent(' ', mods), nil
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		if k == KeyAny {
			if mods != ModNone {
				return Event{}, fmt.Errorf("%w: modifiers on wildcard in %q", ErrInvalidSpec, spec)
			}
			return Any(), nil
		}
		return NewSpecialEvent(k, mods), nil
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		if mods.HasShift() {
			return Event{}, fmt.Errorf("%w: shift on character in %q", ErrInvalidSpec, spec)
		}
		return NewRuneEvent(r, mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

// NormalizeSpec parses and re-formats a key name to its canonical form.
func NormalizeSpec(spec string) (string, error) {
	seq, err := ParseSequence(spec)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}
