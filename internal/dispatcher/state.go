package dispatcher

import (
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
)

// Status is the outcome of one HandleKey, HandlePaste or FlushPending call.
type Status uint8

const (
	// Fired means a binding's handler ran.
	Fired Status = iota
	// Pending means the keys so far are a prefix of a longer binding.
	Pending
	// NoMatch means nothing is bound; the keys were dropped.
	NoMatch
	// Discarded means a pending sequence timed out without a fallback.
	Discarded
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Fired:
		return "fired"
	case Pending:
		return "pending"
	case NoMatch:
		return "no-match"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Result describes how a key event was resolved.
type Result struct {
	Status Status

	// Binding is the label of the binding that fired, if any.
	Binding string

	// Layer is the table the binding belongs to.
	Layer string

	// Keys is the key sequence the result covers.
	Keys *key.Sequence
}

// Mode is the effective dispatch mode, derived from host state.
type Mode uint8

// Modes in priority order, most specific first.
const (
	ModePaneNumbers Mode = iota
	ModePrefix
	ModeConfirm
	ModeCommand
	ModeSearch
	ModeScroll
	ModeNormal
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePaneNumbers:
		return "pane-numbers"
	case ModePrefix:
		return "prefix"
	case ModeConfirm:
		return "confirm"
	case ModeCommand:
		return "command"
	case ModeSearch:
		return "search"
	case ModeScroll:
		return "scroll"
	case ModeNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// ModeOf derives the effective mode of a state snapshot.
func ModeOf(s filter.State) Mode {
	switch {
	case s.PaneNumbers:
		return ModePaneNumbers
	case s.HasPrefix:
		return ModePrefix
	case s.WaitingForConfirmation:
		return ModeConfirm
	case s.CommandFocused || s.PromptFocused:
		return ModeCommand
	case s.Searching:
		return ModeSearch
	case s.InScrollBuffer:
		return ModeScroll
	default:
		return ModeNormal
	}
}

// Snapshot reads the predicate state from a host.
func Snapshot(h execctx.Host) filter.State {
	s := filter.State{PaneNumbers: h.PaneNumbersVisible()}

	switch h.Focus() {
	case execctx.FocusCommand:
		s.CommandFocused = true
	case execctx.FocusPrompt:
		s.PromptFocused = true
	}

	if c := h.Client(); c != nil {
		s.HasPrefix = c.HasPrefix()
		s.WaitingForConfirmation = c.ConfirmCommand() != "" || c.ConfirmText() != ""
	}

	w := h.ActiveWindow()
	if w == nil {
		return s
	}
	p := w.ActivePane()
	if p == nil {
		return s
	}
	s.InScrollBuffer = p.InScrollBuffer()
	s.Searching = s.InScrollBuffer && p.IsSearching()
	if s.InScrollBuffer {
		if sb := p.ScrollBuffer(); sb != nil {
			s.HasSelection = sb.Selection() != nil
		}
	}
	if sb := p.SearchBuffer(); sb != nil {
		s.SearchInputEmpty = sb.Text() == ""
	}
	return s
}
