// Package sim provides an in-memory multiplexer implementing the
// execctx interfaces. It records everything written to pane processes and
// every command run, for use in tests and the trace command.
package sim

import (
	"sync"

	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/key"
)

// Host is a simulated multiplexer with one client.
type Host struct {
	mu          sync.Mutex
	window      *Window
	client      *Client
	focus       execctx.Focus
	paneNumbers bool
	inputMode   execctx.InputMode
	commands    []string
	history     []string

	// CommandErr is returned by HandleCommand when set.
	CommandErr error
}

// NewHost creates a host whose active window holds n panes, the first one
// active.
func NewHost(n int) *Host {
	if n < 1 {
		n = 1
	}
	w := &Window{}
	for i := 0; i < n; i++ {
		w.panes = append(w.panes, NewPane(i))
	}
	return &Host{window: w, client: &Client{}}
}

// ActiveWindow implements execctx.Host.
func (h *Host) ActiveWindow() execctx.Window {
	if h.window == nil {
		return nil
	}
	return h.window
}

// Window returns the concrete active window.
func (h *Host) Window() *Window { return h.window }

// Client implements execctx.Host.
func (h *Host) Client() execctx.ClientState { return h.client }

// ClientState returns the concrete client.
func (h *Host) ClientState() *Client { return h.client }

// Focus implements execctx.Host.
func (h *Host) Focus() execctx.Focus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focus
}

// SetFocus moves keyboard focus.
func (h *Host) SetFocus(f execctx.Focus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focus = f
}

// PaneNumbersVisible implements execctx.Host.
func (h *Host) PaneNumbersVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paneNumbers
}

// SetPaneNumbersVisible implements execctx.Host.
func (h *Host) SetPaneNumbersVisible(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paneNumbers = visible
}

// LeaveCommandMode implements execctx.Host.
func (h *Host) LeaveCommandMode(appendToHistory bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if appendToHistory {
		h.history = append(h.history, "")
	}
	h.focus = execctx.FocusPane
}

// HandleCommand implements execctx.Host.
func (h *Host) HandleCommand(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, line)
	return h.CommandErr
}

// Commands returns the command lines run so far.
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.commands...)
}

// CommandHistory returns the entries LeaveCommandMode appended.
func (h *Host) CommandHistory() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.history...)
}

// SetInputMode implements execctx.Host.
func (h *Host) SetInputMode(mode execctx.InputMode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inputMode = mode
}

// InputMode returns the last mode set.
func (h *Host) InputMode() execctx.InputMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inputMode
}

// ActivePane returns the concrete active pane.
func (h *Host) ActivePane() *Pane {
	return h.window.active()
}

// Window is a simulated window.
type Window struct {
	mu     sync.Mutex
	panes  []*Pane
	index  int
	synced bool
}

// ActivePane implements execctx.Window.
func (w *Window) ActivePane() execctx.Pane {
	p := w.active()
	if p == nil {
		return nil
	}
	return p
}

func (w *Window) active() *Pane {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.index < 0 || w.index >= len(w.panes) {
		return nil
	}
	return w.panes[w.index]
}

// Panes implements execctx.Window.
func (w *Window) Panes() []execctx.Pane {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]execctx.Pane, len(w.panes))
	for i, p := range w.panes {
		out[i] = p
	}
	return out
}

// Pane returns the i-th pane.
func (w *Window) Pane(i int) *Pane {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panes[i]
}

// Select makes the i-th pane active.
func (w *Window) Select(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.index = i
}

// SynchronizePanes implements execctx.Window.
func (w *Window) SynchronizePanes() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.synced
}

// SetSynchronizePanes toggles input synchronization.
func (w *Window) SetSynchronizePanes(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.synced = on
}

// Pane is a simulated pane.
type Pane struct {
	mu        sync.Mutex
	id        int
	scrolling bool
	searching bool
	clock     bool
	search    execctx.SearchState
	input     *SearchBuffer
	scroll    *ScrollBuffer
	proc      *Process
}

// NewPane creates a pane with empty buffers.
func NewPane(id int) *Pane {
	return &Pane{
		id:     id,
		input:  &SearchBuffer{},
		scroll: &ScrollBuffer{},
		proc:   &Process{},
	}
}

// ID returns the pane number.
func (p *Pane) ID() int { return p.id }

// SearchBuffer implements execctx.Pane.
func (p *Pane) SearchBuffer() execctx.SearchBuffer { return p.input }

// SearchInput returns the concrete search line.
func (p *Pane) SearchInput() *SearchBuffer { return p.input }

// ScrollBuffer implements execctx.Pane.
func (p *Pane) ScrollBuffer() execctx.ScrollBuffer { return p.scroll }

// Scroll returns the concrete scroll buffer.
func (p *Pane) Scroll() *ScrollBuffer { return p.scroll }

// SearchState implements execctx.Pane.
func (p *Pane) SearchState() *execctx.SearchState { return &p.search }

// InScrollBuffer implements execctx.Pane.
func (p *Pane) InScrollBuffer() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrolling
}

// EnterScrollBuffer switches the pane into its scroll buffer.
func (p *Pane) EnterScrollBuffer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolling = true
}

// ExitScrollBuffer implements execctx.Pane.
func (p *Pane) ExitScrollBuffer() {
	p.mu.Lock()
	p.scrolling = false
	p.searching = false
	p.mu.Unlock()
	p.scroll.ClearSelection()
}

// IsSearching implements execctx.Pane.
func (p *Pane) IsSearching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searching
}

// SetSearching implements execctx.Pane.
func (p *Pane) SetSearching(searching bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searching = searching
}

// ClockMode implements execctx.Pane.
func (p *Pane) ClockMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock
}

// SetClockMode implements execctx.Pane.
func (p *Pane) SetClockMode(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = on
}

// Process implements execctx.Pane.
func (p *Pane) Process() execctx.Process { return p.proc }

// Proc returns the concrete process.
func (p *Pane) Proc() *Process { return p.proc }

// SearchBuffer is a simulated search line.
type SearchBuffer struct {
	mu      sync.Mutex
	text    string
	history []string
}

// Text implements execctx.SearchBuffer.
func (b *SearchBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SetText replaces the typed query.
func (b *SearchBuffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

// Reset implements execctx.SearchBuffer.
func (b *SearchBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = ""
}

// AppendToHistory implements execctx.SearchBuffer.
func (b *SearchBuffer) AppendToHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.text != "" {
		b.history = append(b.history, b.text)
	}
}

// History returns the saved queries.
func (b *SearchBuffer) History() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.history...)
}

// SearchCall records one ApplySearch call.
type SearchCall struct {
	State          execctx.SearchState
	IncludeCurrent bool
	Count          int
}

// ScrollBuffer is a simulated scroll buffer.
type ScrollBuffer struct {
	mu        sync.Mutex
	selection *execctx.Selection
	selected  string
	searches  []SearchCall
}

// ApplySearch implements execctx.ScrollBuffer.
func (b *ScrollBuffer) ApplySearch(state execctx.SearchState, includeCurrent bool, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searches = append(b.searches, SearchCall{State: state, IncludeCurrent: includeCurrent, Count: count})
}

// Searches returns the ApplySearch calls so far.
func (b *ScrollBuffer) Searches() []SearchCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SearchCall(nil), b.searches...)
}

// Selection implements execctx.ScrollBuffer.
func (b *ScrollBuffer) Selection() *execctx.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

// StartSelection implements execctx.ScrollBuffer.
func (b *ScrollBuffer) StartSelection(t execctx.SelectionType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = &execctx.Selection{Type: t}
}

// SetSelectedText sets the text CopySelection returns.
func (b *ScrollBuffer) SetSelectedText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = text
}

// CopySelection implements execctx.ScrollBuffer.
func (b *ScrollBuffer) CopySelection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = nil
	return b.selected
}

// ClearSelection drops the selection.
func (b *ScrollBuffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = nil
}

// Input is one write to a process.
type Input struct {
	Key   key.Event
	Data  string
	Paste bool
}

// Process records writes.
type Process struct {
	mu     sync.Mutex
	inputs []Input
}

// WriteKey implements execctx.Process.
func (p *Process) WriteKey(ev key.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, Input{Key: ev})
}

// WriteInput implements execctx.Process.
func (p *Process) WriteInput(data string, paste bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, Input{Data: data, Paste: paste})
}

// Inputs returns the writes so far.
func (p *Process) Inputs() []Input {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Input(nil), p.inputs...)
}

// Keys returns the names of keys written, in order.
func (p *Process) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, in := range p.inputs {
		if in.Data == "" && !in.Paste {
			out = append(out, in.Key.String())
		}
	}
	return out
}

// Client is simulated per-client state.
type Client struct {
	mu             sync.Mutex
	prefix         bool
	confirmCommand string
	confirmText    string
}

// HasPrefix implements execctx.ClientState.
func (c *Client) HasPrefix() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefix
}

// SetHasPrefix implements execctx.ClientState.
func (c *Client) SetHasPrefix(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefix = on
}

// Confirm asks the client to confirm command, showing text.
func (c *Client) Confirm(command, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmCommand = command
	c.confirmText = text
}

// ConfirmCommand implements execctx.ClientState.
func (c *Client) ConfirmCommand() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmCommand
}

// ConfirmText implements execctx.ClientState.
func (c *Client) ConfirmText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmText
}

// ClearConfirmation implements execctx.ClientState.
func (c *Client) ClearConfirmation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmCommand = ""
	c.confirmText = ""
}
