package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return normalize(Event{
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	})
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return NewEvent(KeyRune, r, mods)
}

// NewSpecialEvent creates a key event for a named key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return NewEvent(key, 0, mods)
}

// NewCtrlEvent creates a control chord such as C-b.
func NewCtrlEvent(r rune) Event {
	return NewEvent(KeyRune, r, ModCtrl)
}

// Any returns the wildcard token.
func Any() Event {
	return Event{Key: KeyAny}
}

// Paste returns the pseudo event used for bracketed paste payloads.
func Paste() Event {
	return NewSpecialEvent(KeyBracketedPaste, ModNone)
}

// normalize folds equivalent spellings onto one canonical event so that
// Equals can stay a plain field comparison.
func normalize(e Event) Event {
	if e.Key != KeyRune {
		return e
	}
	// Shift is carried by the rune itself.
	e.Modifiers = e.Modifiers.Without(ModShift)
	if !e.Modifiers.HasCtrl() {
		return e
	}
	e.Rune = unicode.ToLower(e.Rune)
	// Terminals cannot tell these chords apart from their named keys.
	switch e.Rune {
	case 'm':
		return Event{Key: KeyEnter, Modifiers: e.Modifiers.Without(ModCtrl), Timestamp: e.Timestamp}
	case 'i':
		return Event{Key: KeyTab, Modifiers: e.Modifiers.Without(ModCtrl), Timestamp: e.Timestamp}
	case '[':
		return Event{Key: KeyEscape, Modifiers: e.Modifiers.Without(ModCtrl), Timestamp: e.Timestamp}
	}
	return e
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character without Ctrl or Meta.
func (e Event) IsChar() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// IsModified returns true if Ctrl or Meta is pressed.
func (e Event) IsModified() bool {
	return e.Modifiers.Has(ModCtrl | ModMeta)
}

// IsAny returns true for the wildcard token.
func (e Event) IsAny() bool {
	return e.Key == KeyAny
}

// String returns the canonical key name, e.g. "a", "C-b", "M-x", "S-Up",
// "Space", "Enter". The result parses back to an equal event.
func (e Event) String() string {
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}
	return e.Modifiers.String() + name
}

// Equals returns true if two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// Matches reports whether the binding token e accepts the pressed key.
// The wildcard accepts every key, bracketed paste included.
func (e Event) Matches(pressed Event) bool {
	if e.Key == KeyAny {
		return true
	}
	return e.Equals(pressed)
}

// IsEnter returns true if this is the Enter key (with no modifiers).
func (e Event) IsEnter() bool {
	return e.Key == KeyEnter && e.Modifiers == ModNone
}

// IsBackspace returns true if this is Backspace (with no modifiers).
func (e Event) IsBackspace() bool {
	return e.Key == KeyBackspace && e.Modifiers == ModNone
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %q}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
