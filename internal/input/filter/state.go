package filter

// Query names defined by DefaultCatalog.
const (
	HasPrefix              = "has-prefix"
	CommandFocused         = "command-focused"
	PromptFocused          = "prompt-focused"
	WaitingForConfirmation = "waiting-for-confirmation"
	PaneNumbers            = "pane-numbers"
	InScrollBuffer         = "in-scroll-buffer"
	Searching              = "searching"
	HasSelection           = "has-selection"
	SearchInputEmpty       = "search-input-empty"
)

// State is a snapshot of the facts bindings are gated on. It is rebuilt
// from the host for every event.
type State struct {
	HasPrefix              bool
	CommandFocused         bool
	PromptFocused          bool
	WaitingForConfirmation bool
	PaneNumbers            bool
	InScrollBuffer         bool
	Searching              bool
	HasSelection           bool
	SearchInputEmpty       bool
}

// DefaultCatalog returns a catalog with the multiplexer queries and their
// constraints.
func DefaultCatalog() *Catalog {
	return NewCatalog().
		Define(HasPrefix, func(s State) bool { return s.HasPrefix }).
		Define(CommandFocused, func(s State) bool { return s.CommandFocused }).
		Define(PromptFocused, func(s State) bool { return s.PromptFocused }).
		Define(WaitingForConfirmation, func(s State) bool { return s.WaitingForConfirmation }).
		Define(PaneNumbers, func(s State) bool { return s.PaneNumbers }).
		Define(InScrollBuffer, func(s State) bool { return s.InScrollBuffer }).
		Define(Searching, func(s State) bool { return s.Searching }).
		Define(HasSelection, func(s State) bool { return s.HasSelection }).
		Define(SearchInputEmpty, func(s State) bool { return s.SearchInputEmpty }).
		Implies(Searching, InScrollBuffer).
		Implies(HasSelection, InScrollBuffer).
		Exclusive(CommandFocused, PromptFocused)
}
