package terminal

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/muxkeys/internal/input/key"
)

// Input is one decoded terminal input: a key press, or a completed
// bracketed paste carrying its payload.
type Input struct {
	Key   key.Event
	Paste bool
	Data  string
}

// String returns the key name, or "paste" for a paste.
func (in Input) String() string {
	if in.Paste {
		return "paste"
	}
	return in.Key.String()
}

// Decoder turns tcell events into Inputs. tcell reports a bracketed
// paste as start and end markers with the text delivered as key events
// in between; the decoder collects that text into a single Input.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	pasting bool
	buf     strings.Builder
}

// Decode converts ev. ok is false for events that produce no input:
// resizes, mouse events, keys inside a paste, and unknown keys.
func (d *Decoder) Decode(ev tcell.Event) (in Input, ok bool) {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			d.pasting = true
			d.buf.Reset()
			return Input{}, false
		}
		if !d.pasting {
			return Input{}, false
		}
		d.pasting = false
		in = Input{Key: key.Paste(), Paste: true, Data: d.buf.String()}
		d.buf.Reset()
		return in, true

	case *tcell.EventKey:
		if d.pasting {
			d.appendPaste(e)
			return Input{}, false
		}
		k, ok := ConvertKey(e)
		if !ok {
			return Input{}, false
		}
		return Input{Key: k}, true
	}
	return Input{}, false
}

// Pasting reports whether a paste is being collected.
func (d *Decoder) Pasting() bool {
	return d.pasting
}

func (d *Decoder) appendPaste(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyRune:
		d.buf.WriteRune(e.Rune())
	case tcell.KeyEnter:
		d.buf.WriteByte('\n')
	case tcell.KeyTab:
		d.buf.WriteByte('\t')
	}
}

var namedKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyBacktab:    key.KeyBacktab,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

var ctrlPunct = map[tcell.Key]rune{
	tcell.KeyCtrlSpace:      ' ',
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// ConvertKey converts a tcell key event. Control codes become Ctrl
// chords, so the byte 0x08 is C-h while DEL (0x7f) is BSpace.
func ConvertKey(e *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(e.Modifiers())

	if e.Key() == tcell.KeyRune {
		return key.NewRuneEvent(e.Rune(), mods), true
	}
	if k, ok := namedKeys[e.Key()]; ok {
		return key.NewSpecialEvent(k, mods), true
	}
	if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
		r := 'a' + rune(e.Key()-tcell.KeyCtrlA)
		return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
	}
	if r, ok := ctrlPunct[e.Key()]; ok {
		return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

// Source reads Inputs from a tcell screen.
type Source struct {
	screen tcell.Screen
	dec    Decoder
}

// NewSource wraps an initialized screen. Bracketed paste is enabled so
// pastes arrive as a single Input.
func NewSource(screen tcell.Screen) *Source {
	screen.EnablePaste()
	return &Source{screen: screen}
}

// Next blocks until an input is decoded. It returns false once the
// screen has been finalized.
func (s *Source) Next() (Input, bool) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return Input{}, false
		}
		if in, ok := s.dec.Decode(ev); ok {
			return in, true
		}
	}
}
