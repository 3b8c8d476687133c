// Package key provides key event types and parsing for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (named keys, runes, the Any wildcard)
//   - Modifier: Represents modifier keys (Ctrl, Meta, Shift)
//   - Event: A single key press with modifiers and timestamp
//   - Sequence: A series of key events forming a binding
//
// # Key Names
//
// Key names follow the multiplexer configuration grammar:
//
//   - Plain characters: "a", "A", "%", "\""
//   - Control chords: "C-b", "^B"
//   - Meta chords: "M-x", "C-M-a"
//   - Named keys: "Enter", "Up", "BSpace", "Escape", "PPage", "F5"
//   - Shifted named keys: "S-Up"
//   - The wildcard "Any", matching any single key
//
// Multi-key sequences are written space separated: "C-x C-s".
package key
