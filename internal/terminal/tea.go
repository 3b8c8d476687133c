package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/muxkeys/internal/input/key"
)

var teaNamed = map[tea.KeyType]key.Event{
	tea.KeyEnter:     {Key: key.KeyEnter},
	tea.KeyTab:       {Key: key.KeyTab},
	tea.KeyEscape:    {Key: key.KeyEscape},
	tea.KeyBackspace: {Key: key.KeyBackspace},
	tea.KeyShiftTab:  {Key: key.KeyBacktab},
	tea.KeyDelete:    {Key: key.KeyDelete},
	tea.KeyInsert:    {Key: key.KeyInsert},
	tea.KeyHome:      {Key: key.KeyHome},
	tea.KeyEnd:       {Key: key.KeyEnd},
	tea.KeyPgUp:      {Key: key.KeyPageUp},
	tea.KeyPgDown:    {Key: key.KeyPageDown},
	tea.KeySpace:     {Key: key.KeyRune, Rune: ' '},

	tea.KeyUp:    {Key: key.KeyUp},
	tea.KeyDown:  {Key: key.KeyDown},
	tea.KeyLeft:  {Key: key.KeyLeft},
	tea.KeyRight: {Key: key.KeyRight},

	tea.KeyShiftUp:    {Key: key.KeyUp, Modifiers: key.ModShift},
	tea.KeyShiftDown:  {Key: key.KeyDown, Modifiers: key.ModShift},
	tea.KeyShiftLeft:  {Key: key.KeyLeft, Modifiers: key.ModShift},
	tea.KeyShiftRight: {Key: key.KeyRight, Modifiers: key.ModShift},

	tea.KeyCtrlUp:    {Key: key.KeyUp, Modifiers: key.ModCtrl},
	tea.KeyCtrlDown:  {Key: key.KeyDown, Modifiers: key.ModCtrl},
	tea.KeyCtrlLeft:  {Key: key.KeyLeft, Modifiers: key.ModCtrl},
	tea.KeyCtrlRight: {Key: key.KeyRight, Modifiers: key.ModCtrl},

	tea.KeyF1:  {Key: key.KeyF1},
	tea.KeyF2:  {Key: key.KeyF2},
	tea.KeyF3:  {Key: key.KeyF3},
	tea.KeyF4:  {Key: key.KeyF4},
	tea.KeyF5:  {Key: key.KeyF5},
	tea.KeyF6:  {Key: key.KeyF6},
	tea.KeyF7:  {Key: key.KeyF7},
	tea.KeyF8:  {Key: key.KeyF8},
	tea.KeyF9:  {Key: key.KeyF9},
	tea.KeyF10: {Key: key.KeyF10},
	tea.KeyF11: {Key: key.KeyF11},
	tea.KeyF12: {Key: key.KeyF12},

	tea.KeyCtrlAt:           {Key: key.KeyRune, Rune: ' ', Modifiers: key.ModCtrl},
	tea.KeyCtrlBackslash:    {Key: key.KeyRune, Rune: '\\', Modifiers: key.ModCtrl},
	tea.KeyCtrlCloseBracket: {Key: key.KeyRune, Rune: ']', Modifiers: key.ModCtrl},
	tea.KeyCtrlCaret:        {Key: key.KeyRune, Rune: '^', Modifiers: key.ModCtrl},
	tea.KeyCtrlUnderscore:   {Key: key.KeyRune, Rune: '_', Modifiers: key.ModCtrl},
}

// FromTea converts a Bubble Tea key message. A pasted message becomes a
// paste Input carrying its runes. Alt maps to Meta.
func FromTea(msg tea.KeyMsg) (Input, bool) {
	var mods key.Modifier
	if msg.Alt {
		mods = key.ModMeta
	}

	if msg.Paste {
		return Input{Key: key.Paste(), Paste: true, Data: string(msg.Runes)}, true
	}

	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return Input{}, false
		}
		return Input{Key: key.NewRuneEvent(msg.Runes[0], mods)}, true
	}
	if ev, ok := teaNamed[msg.Type]; ok {
		return Input{Key: key.NewEvent(ev.Key, ev.Rune, ev.Modifiers.With(mods))}, true
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		r := 'a' + rune(msg.Type-tea.KeyCtrlA)
		return Input{Key: key.NewRuneEvent(r, mods.With(key.ModCtrl))}, true
	}
	return Input{}, false
}
