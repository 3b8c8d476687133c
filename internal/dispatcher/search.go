package dispatcher

import (
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/keymap"
)

// Incremental search inside a pane's scroll buffer. Each pane owns its
// search line and search state; these handlers only drive them.

func loadSearchBindings(t *keymap.Table) error {
	return register(t, []builtin{
		{"abort-search", []string{"C-g", "C-c"}, scrollSearching, abortSearch,
			"leave search, keeping the scroll position"},
		{"abort-search", []string{"BSpace"}, scrollSearching.And(searchEmpty), abortSearch,
			"leave search when the search line is empty"},
		{"accept-search", []string{"Enter"}, scrollSearching, acceptSearch,
			"jump to the match and leave search"},
		{"search-backward", []string{"C-r", "?"}, scrollNotSearching, enterSearch(execctx.Backward),
			"start a reverse incremental search"},
		{"search-forward", []string{"C-s", "/"}, scrollNotSearching, enterSearch(execctx.Forward),
			"start a forward incremental search"},
		{"repeat-search-backward", []string{"C-r", "Up"}, scrollSearching, repeatSearch(execctx.Backward),
			"find the previous match"},
		{"repeat-search-forward", []string{"C-s", "Down"}, scrollSearching, repeatSearch(execctx.Forward),
			"find the next match"},
	})
}

func enterSearch(dir execctx.Direction) keymap.Handler {
	return func(ctx *execctx.Context) error {
		pane, err := ctx.ActivePane()
		if err != nil {
			return err
		}
		ctx.Host.SetInputMode(execctx.InputInsert)
		pane.SetSearching(true)
		pane.SearchState().Direction = dir
		return nil
	}
}

func abortSearch(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	pane.SearchBuffer().Reset()
	pane.SetSearching(false)
	return nil
}

func acceptSearch(ctx *execctx.Context) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	input := pane.SearchBuffer()
	state := pane.SearchState()

	if text := input.Text(); text != "" {
		state.Text = text
	}
	pane.ScrollBuffer().ApplySearch(*state, true, 1)
	input.AppendToHistory()

	input.Reset()
	pane.SetSearching(false)
	return nil
}

// repeatSearch moves to the next match in dir. Pressing the key for the
// other direction only turns the search around.
func repeatSearch(dir execctx.Direction) keymap.Handler {
	return func(ctx *execctx.Context) error {
		pane, err := ctx.ActivePane()
		if err != nil {
			return err
		}
		state := pane.SearchState()
		changed := state.Direction != dir

		state.Text = pane.SearchBuffer().Text()
		state.Direction = dir

		if !changed {
			pane.ScrollBuffer().ApplySearch(*state, false, ctx.Arg())
		}
		return nil
	}
}
