package dispatcher

import (
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/input/keymap"
)

// Leaf predicates.
var (
	hasPrefix      = filter.Query(filter.HasPrefix)
	commandFocused = filter.Query(filter.CommandFocused)
	promptFocused  = filter.Query(filter.PromptFocused)
	waiting        = filter.Query(filter.WaitingForConfirmation)
	paneNumbers    = filter.Query(filter.PaneNumbers)
	inScroll       = filter.Query(filter.InScrollBuffer)
	searching      = filter.Query(filter.Searching)
	hasSelection   = filter.Query(filter.HasSelection)
	searchEmpty    = filter.Query(filter.SearchInputEmpty)

	lineFocused = filter.Or(commandFocused, promptFocused)
)

// Mode guards. Each encodes one level of the dispatch priority by excluding
// every level above it, so no two guards are ever true together.
var (
	overlayGuard = paneNumbers
	prefixGuard  = hasPrefix.And(filter.Not(paneNumbers))
	confirmGuard = waiting.And(filter.Not(hasPrefix), filter.Not(paneNumbers))
	commandGuard = lineFocused.And(filter.Not(waiting), filter.Not(hasPrefix), filter.Not(paneNumbers))
	scrollGuard  = inScroll.And(filter.Not(lineFocused), filter.Not(waiting), filter.Not(hasPrefix), filter.Not(paneNumbers))
	normalGuard  = filter.Not(filter.Or(lineFocused, hasPrefix, waiting, paneNumbers, inScroll))

	scrollNotSearching = scrollGuard.And(filter.Not(searching))
	scrollSearching    = scrollGuard.And(searching)

	// lineEditorGate opens the external line-editor table. The overlay, the
	// prefix and a pending confirmation all rank above line input.
	lineEditorGate = filter.Or(lineFocused, inScroll).And(filter.Not(filter.Or(hasPrefix, waiting, paneNumbers)))
)

// builtin is one named binding: several keys sharing a handler.
type builtin struct {
	name    string
	keys    []string
	guard   filter.Predicate
	handler keymap.Handler
	desc    string
}

func register(t *keymap.Table, builtins []builtin) error {
	for _, s := range builtins {
		for _, k := range s.keys {
			seq, err := key.ParseSequence(k)
			if err != nil {
				return err
			}
			if _, err := t.Register(seq, s.guard, s.handler,
				keymap.WithName(s.name), keymap.WithDescription(s.desc)); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadBuiltins(t *keymap.Table) error {
	return register(t, []builtin{
		{"hide-pane-numbers", []string{"Any"}, overlayGuard, hidePaneNumbers,
			"any key hides the pane-number overlay"},
		{"cancel-prefix", []string{"Any"}, prefixGuard, cancelPrefix,
			"unbound prefixed keys are swallowed"},
		{"confirm", []string{"y", "Y"}, confirmGuard, confirmCommand,
			"run the command awaiting confirmation"},
		{"cancel-confirm", []string{"n", "N", "C-c"}, confirmGuard, cancelConfirmation,
			"drop the command awaiting confirmation"},
		{"leave-command-mode", []string{"C-c", "C-g"}, commandGuard, leaveCommandMode,
			"close the command line without saving history"},
		{"exit-scroll-buffer", []string{"C-c", "q"}, scrollNotSearching, exitScrollBuffer,
			"leave the scroll buffer"},
		{"exit-scroll-buffer", []string{"Enter"}, scrollNotSearching.And(filter.Not(hasSelection)), exitScrollBuffer,
			"leave the scroll buffer"},
		{"start-selection", []string{"Space"}, scrollNotSearching, startSelection,
			"begin a character selection"},
		{"copy-selection", []string{"Enter"}, scrollNotSearching.And(hasSelection), copySelection,
			"copy the selection to the clipboard"},
		{"cycle-selection", []string{"v"}, scrollNotSearching.And(hasSelection), cycleSelection,
			"cycle lines, block and character selection"},
		{"send-key", []string{"Any"}, normalGuard, sendKey,
			"forward the key to the active pane"},
		{"send-paste", []string{"BracketedPaste"}, normalGuard, sendPaste,
			"forward pasted text to the active pane"},
	})
}

func hidePaneNumbers(ctx *execctx.Context) error {
	ctx.Host.SetPaneNumbersVisible(false)
	return nil
}

func cancelPrefix(ctx *execctx.Context) error {
	ctx.Client.SetHasPrefix(false)
	return nil
}

func confirmCommand(ctx *execctx.Context) error {
	command := ctx.Client.ConfirmCommand()
	ctx.Client.ClearConfirmation()
	return ctx.Host.HandleCommand(command)
}

func cancelConfirmation(ctx *execctx.Context) error {
	ctx.Client.ClearConfirmation()
	return nil
}

func leaveCommandMode(ctx *execctx.Context) error {
	ctx.Host.LeaveCommandMode(false)
	return nil
}

func exitScrollBuffer(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	pane.ExitScrollBuffer()
	return nil
}

func startSelection(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	pane.ScrollBuffer().StartSelection(execctx.SelectionCharacters)
	return nil
}

func copySelection(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	if ctx.Clipboard == nil {
		return execctx.ErrMissingClipboard
	}
	return ctx.Clipboard.SetText(pane.ScrollBuffer().CopySelection())
}

func cycleSelection(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	if sel := pane.ScrollBuffer().Selection(); sel != nil {
		sel.Type = sel.Type.Next()
	}
	return nil
}

// targetPanes returns the panes input goes to: every pane of the window
// when synchronize-panes is on, else the active one.
func targetPanes(ctx *execctx.Context) []execctx.Pane {
	if ctx.Window != nil && ctx.Window.SynchronizePanes() {
		return ctx.Window.Panes()
	}
	return []execctx.Pane{ctx.Pane}
}

func sendKey(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	// The first key leaves clock mode instead of reaching the process.
	if pane.ClockMode() {
		pane.SetClockMode(false)
		return nil
	}
	ev := ctx.Event()
	for _, p := range targetPanes(ctx) {
		p.Process().WriteKey(ev)
	}
	return nil
}

func sendPaste(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	if pane.ClockMode() {
		return nil
	}
	for _, p := range targetPanes(ctx) {
		p.Process().WriteInput(ctx.Data, true)
	}
	return nil
}
