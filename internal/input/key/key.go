package key

import (
	"fmt"
	"strings"
)

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in Event.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyBracketedPaste is a pseudo key delivered for a bracketed paste
	// payload. The pasted text travels next to the event, not in it.
	KeyBracketedPaste

	// KeyAny is the wildcard token. In a binding it matches any single key;
	// it never appears in events produced by a terminal.
	KeyAny

	// KeyRune is used for character keys (letters, numbers, punctuation).
	// The actual character is stored in Event.Rune.
	KeyRune
)

// String returns a human-readable name for the key.
// Names match the multiplexer key-name grammar so they parse back.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBacktab:
		return "BTab"
	case KeyBackspace:
		return "BSpace"
	case KeyDelete:
		return "DC"
	case KeyInsert:
		return "IC"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PPage"
	case KeyPageDown:
		return "NPage"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyBracketedPaste:
		return "BracketedPaste"
	case KeyAny:
		return "Any"
	case KeyRune:
		return "Rune"
	}
	if k.IsFunctionKey() {
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune && k != KeyAny
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// keyNameMap maps key names (lowercase) to Key values.
// Both the tmux spellings and the common long forms are accepted.
var keyNameMap = map[string]Key{
	"escape":         KeyEscape,
	"esc":            KeyEscape,
	"enter":          KeyEnter,
	"return":         KeyEnter,
	"tab":            KeyTab,
	"btab":           KeyBacktab,
	"bspace":         KeyBackspace,
	"backspace":      KeyBackspace,
	"dc":             KeyDelete,
	"delete":         KeyDelete,
	"ic":             KeyInsert,
	"insert":         KeyInsert,
	"home":           KeyHome,
	"end":            KeyEnd,
	"ppage":          KeyPageUp,
	"pgup":           KeyPageUp,
	"pageup":         KeyPageUp,
	"npage":          KeyPageDown,
	"pgdn":           KeyPageDown,
	"pagedown":       KeyPageDown,
	"up":             KeyUp,
	"down":           KeyDown,
	"left":           KeyLeft,
	"right":          KeyRight,
	"f1":             KeyF1,
	"f2":             KeyF2,
	"f3":             KeyF3,
	"f4":             KeyF4,
	"f5":             KeyF5,
	"f6":             KeyF6,
	"f7":             KeyF7,
	"f8":             KeyF8,
	"f9":             KeyF9,
	"f10":            KeyF10,
	"f11":            KeyF11,
	"f12":            KeyF12,
	"bracketedpaste": KeyBracketedPaste,
	"any":            KeyAny,
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
