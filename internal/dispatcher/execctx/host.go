package execctx

import "github.com/dshills/muxkeys/internal/input/key"

// Focus identifies the widget holding keyboard focus.
type Focus uint8

const (
	// FocusPane means keys go to the active pane.
	FocusPane Focus = iota
	// FocusCommand means the command line is focused.
	FocusCommand
	// FocusPrompt means an interactive prompt line is focused.
	FocusPrompt
)

// String returns the focus name.
func (f Focus) String() string {
	switch f {
	case FocusPane:
		return "pane"
	case FocusCommand:
		return "command"
	case FocusPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// InputMode is the line editor input mode.
type InputMode uint8

const (
	// InputNavigation is the line editor's command/navigation mode.
	InputNavigation InputMode = iota
	// InputInsert is the line editor's insertion mode.
	InputInsert
)

// Direction is a search direction.
type Direction uint8

const (
	// Forward searches toward the end of the buffer.
	Forward Direction = iota
	// Backward searches toward the start of the buffer.
	Backward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// SearchState is the persisted search of a pane.
type SearchState struct {
	Text      string
	Direction Direction
}

// SelectionType is the shape of a scroll-buffer selection.
type SelectionType uint8

const (
	// SelectionUnknown is the zero value and any type this package does
	// not recognize.
	SelectionUnknown SelectionType = iota
	// SelectionLines selects whole lines.
	SelectionLines
	// SelectionBlock selects a rectangle.
	SelectionBlock
	// SelectionCharacters selects a character range.
	SelectionCharacters
)

var selectionCycle = []SelectionType{SelectionLines, SelectionBlock, SelectionCharacters}

// Next returns the following type in the Lines, Block, Characters cycle.
// Unrecognized types yield Lines.
func (t SelectionType) Next() SelectionType {
	for i, st := range selectionCycle {
		if st == t {
			return selectionCycle[(i+1)%len(selectionCycle)]
		}
	}
	return SelectionLines
}

// String returns the selection type name.
func (t SelectionType) String() string {
	switch t {
	case SelectionLines:
		return "lines"
	case SelectionBlock:
		return "block"
	case SelectionCharacters:
		return "characters"
	default:
		return "unknown"
	}
}

// Selection is the active selection of a scroll buffer.
type Selection struct {
	Type SelectionType
}

// Host is the multiplexer a dispatcher serves.
type Host interface {
	ActiveWindow() Window
	Client() ClientState
	Focus() Focus
	PaneNumbersVisible() bool
	SetPaneNumbersVisible(visible bool)
	// LeaveCommandMode closes the command or prompt line.
	LeaveCommandMode(appendToHistory bool)
	// HandleCommand runs a command line, as typed by the user.
	HandleCommand(line string) error
	// SetInputMode switches the line editor's input mode.
	SetInputMode(mode InputMode)
}

// Window is a set of panes, one of which is active.
type Window interface {
	ActivePane() Pane
	Panes() []Pane
	SynchronizePanes() bool
}

// Pane is a terminal surface running a process.
type Pane interface {
	SearchBuffer() SearchBuffer
	ScrollBuffer() ScrollBuffer
	SearchState() *SearchState
	InScrollBuffer() bool
	IsSearching() bool
	SetSearching(searching bool)
	ClockMode() bool
	SetClockMode(on bool)
	ExitScrollBuffer()
	Process() Process
}

// SearchBuffer is the line where a search query is typed.
type SearchBuffer interface {
	Text() string
	Reset()
	AppendToHistory()
}

// ScrollBuffer is the read-only history view of a pane.
type ScrollBuffer interface {
	// ApplySearch moves to the count-th match of state.
	ApplySearch(state SearchState, includeCurrent bool, count int)
	// Selection returns the active selection, or nil.
	Selection() *Selection
	StartSelection(t SelectionType)
	// CopySelection returns the selected text and clears the selection.
	CopySelection() string
}

// Process is the program running in a pane.
type Process interface {
	WriteKey(ev key.Event)
	WriteInput(data string, paste bool)
}

// ClientState is the per-client state the dispatcher reads and mutates.
type ClientState interface {
	HasPrefix() bool
	SetHasPrefix(on bool)
	// ConfirmCommand returns the command awaiting confirmation, or "".
	ConfirmCommand() string
	ConfirmText() string
	ClearConfirmation()
}

// Clipboard receives copied selections.
type Clipboard interface {
	SetText(text string) error
}

// CommandExecutor runs named commands for custom bindings.
type CommandExecutor interface {
	Execute(ctx *Context, name string, args []string) error
}

// CommandExecutorFunc adapts a function to CommandExecutor.
type CommandExecutorFunc func(ctx *Context, name string, args []string) error

// Execute implements CommandExecutor.
func (f CommandExecutorFunc) Execute(ctx *Context, name string, args []string) error {
	return f(ctx, name, args)
}
