package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key. Only meaningful for named keys;
	// shifted characters arrive as their own rune.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModMeta indicates Meta (Alt, or an Escape prefix on most terminals).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns the key-name prefix form, e.g. "C-M-".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var sb strings.Builder
	if m.HasCtrl() {
		sb.WriteString("C-")
	}
	if m.HasMeta() {
		sb.WriteString("M-")
	}
	if m.HasShift() {
		sb.WriteString("S-")
	}
	return sb.String()
}

// modifierFromPrefix maps a single-letter prefix to its Modifier.
func modifierFromPrefix(c byte) Modifier {
	switch c {
	case 'C', 'c':
		return ModCtrl
	case 'M', 'm':
		return ModMeta
	case 'S', 's':
		return ModShift
	}
	return ModNone
}
