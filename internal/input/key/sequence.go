package key

import (
	"fmt"
	"strings"
)

// Sequence represents a series of key events forming a binding.
// Examples: "C-b", "C-x C-s", "Any".
type Sequence struct {
	// Events contains the key events in order.
	Events []Event
}

// NewSequence creates an empty key sequence.
func NewSequence() *Sequence {
	return &Sequence{
		Events: make([]Event, 0, 4), // Most sequences are short
	}
}

// NewSequenceFrom creates a sequence from the given events.
func NewSequenceFrom(events ...Event) *Sequence {
	return &Sequence{
		Events: events,
	}
}

// Len returns the number of events in the sequence.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Events)
}

// IsEmpty returns true if the sequence has no events.
func (s *Sequence) IsEmpty() bool {
	return s.Len() == 0
}

// Add appends an event to the sequence.
func (s *Sequence) Add(event Event) {
	s.Events = append(s.Events, event)
}

// Clear removes all events from the sequence.
func (s *Sequence) Clear() {
	s.Events = s.Events[:0]
}

// First returns the first event, or nil if empty.
func (s *Sequence) First() *Event {
	if s.Len() == 0 {
		return nil
	}
	return &s.Events[0]
}

// Last returns the last event, or nil if empty.
func (s *Sequence) Last() *Event {
	if s.Len() == 0 {
		return nil
	}
	return &s.Events[len(s.Events)-1]
}

// String returns the space separated key names.
func (s *Sequence) String() string {
	if s.Len() == 0 {
		return ""
	}

	parts := make([]string, len(s.Events))
	for i, e := range s.Events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Equals returns true if two sequences are token-for-token identical.
// The wildcard only equals another wildcard.
func (s *Sequence) Equals(other *Sequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Events) != len(other.Events) {
		return false
	}
	for i, e := range s.Events {
		if !e.Equals(other.Events[i]) {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s *Sequence) HasPrefix(prefix *Sequence) bool {
	if prefix.IsEmpty() {
		return true
	}
	if len(prefix.Events) > s.Len() {
		return false
	}
	for i, e := range prefix.Events {
		if !e.Equals(s.Events[i]) {
			return false
		}
	}
	return true
}

// HasWildcard reports whether any token is the Any wildcard.
func (s *Sequence) HasWildcard() bool {
	for _, e := range s.Events {
		if e.IsAny() {
			return true
		}
	}
	return false
}

// Matches reports whether this binding sequence accepts exactly the pressed
// keys, treating Any tokens as wildcards.
func (s *Sequence) Matches(pressed *Sequence) bool {
	if s.Len() != pressed.Len() || s.Len() == 0 {
		return false
	}
	return s.matchesHead(pressed)
}

// Continues reports whether the pressed keys are a strict prefix of this
// binding sequence, treating Any tokens as wildcards.
func (s *Sequence) Continues(pressed *Sequence) bool {
	if pressed.Len() == 0 || pressed.Len() >= s.Len() {
		return false
	}
	return s.matchesHead(pressed)
}

func (s *Sequence) matchesHead(pressed *Sequence) bool {
	for i, e := range pressed.Events {
		if !s.Events[i].Matches(e) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return &Sequence{Events: events}
}

// ParseSequence parses a space separated list of key names.
// Examples: "C-b", "C-x C-s", "Any", "M-Up".
func ParseSequence(s string) (*Sequence, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}

	seq := NewSequence()
	for _, field := range fields {
		event, err := Parse(field)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", field, err)
		}
		seq.Add(event)
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) *Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
