package key

import (
	"errors"
	"testing"
)

func TestParseSingleCharacter(t *testing.T) {
	tests := []struct {
		spec     string
		wantRune rune
	}{
		{"a", 'a'},
		{"A", 'A'},
		{"1", '1'},
		{"%", '%'},
		{"\"", '"'},
		{"-", '-'},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != KeyRune {
			t.Errorf("Parse(%q) key = %v, want Rune", tt.spec, event.Key)
		}
		if event.Rune != tt.wantRune {
			t.Errorf("Parse(%q) rune = %q, want %q", tt.spec, event.Rune, tt.wantRune)
		}
		if event.Modifiers != ModNone {
			t.Errorf("Parse(%q) modifiers = %v, want none", tt.spec, event.Modifiers)
		}
	}
}

func TestParseNamedKeys(t *testing.T) {
	tests := []struct {
		spec    string
		wantKey Key
	}{
		{"Enter", KeyEnter},
		{"enter", KeyEnter},
		{"Escape", KeyEscape},
		{"Tab", KeyTab},
		{"BTab", KeyBacktab},
		{"BSpace", KeyBackspace},
		{"Backspace", KeyBackspace},
		{"DC", KeyDelete},
		{"IC", KeyInsert},
		{"Up", KeyUp},
		{"Down", KeyDown},
		{"Left", KeyLeft},
		{"Right", KeyRight},
		{"Home", KeyHome},
		{"End", KeyEnd},
		{"PPage", KeyPageUp},
		{"PageUp", KeyPageUp},
		{"NPage", KeyPageDown},
		{"F1", KeyF1},
		{"F12", KeyF12},
		{"Any", KeyAny},
		{"BracketedPaste", KeyBracketedPaste},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if event.Key != tt.wantKey {
			t.Errorf("Parse(%q) key = %v, want %v", tt.spec, event.Key, tt.wantKey)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"C-b", Event{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"C-B", Event{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"^B", Event{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"M-x", Event{Key: KeyRune, Rune: 'x', Modifiers: ModMeta}},
		{"M-X", Event{Key: KeyRune, Rune: 'X', Modifiers: ModMeta}},
		{"C-M-a", Event{Key: KeyRune, Rune: 'a', Modifiers: ModCtrl | ModMeta}},
		{"M-C-a", Event{Key: KeyRune, Rune: 'a', Modifiers: ModCtrl | ModMeta}},
		{"S-Up", Event{Key: KeyUp, Modifiers: ModShift}},
		{"C-Left", Event{Key: KeyLeft, Modifiers: ModCtrl}},
		{"M-Enter", Event{Key: KeyEnter, Modifiers: ModMeta}},
		{"C-Space", Event{Key: KeyRune, Rune: ' ', Modifiers: ModCtrl}},
		{"Space", Event{Key: KeyRune, Rune: ' '}},
		{"C--", Event{Key: KeyRune, Rune: '-', Modifiers: ModCtrl}},
		{"C-m", Event{Key: KeyEnter}},
		{"C-i", Event{Key: KeyTab}},
		{"C-[", Event{Key: KeyEscape}},
	}

	for _, tt := range tests {
		event, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if !event.Equals(tt.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, event, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Bogus", ErrInvalidSpec},
		{"C-C-a", ErrInvalidSpec},
		{"S-a", ErrInvalidSpec},
		{"C-Any", ErrInvalidSpec},
		{"F13", ErrInvalidSpec},
		{"ab", ErrInvalidSpec},
	}

	for _, tt := range tests {
		_, err := Parse(tt.spec)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	specs := []string{
		"a", "%", "C-b", "M-x", "C-M-a", "S-Up", "Space", "C-Space",
		"Enter", "BSpace", "PPage", "NPage", "F5", "M-Left", "Any", "DC",
	}

	for _, spec := range specs {
		event, err := Parse(spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", spec, err)
			continue
		}
		if got := event.String(); got != spec {
			t.Errorf("Parse(%q).String() = %q", spec, got)
		}
		again, err := Parse(event.String())
		if err != nil || !again.Equals(event) {
			t.Errorf("re-parse of %q = %#v, %v", spec, again, err)
		}
	}
}

func TestNormalizeSpec(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"c-B", "C-b"},
		{"^a  x", "C-a x"},
		{"pageup", "PPage"},
		{"esc", "Escape"},
	}

	for _, tt := range tests {
		got, err := NormalizeSpec(tt.spec)
		if err != nil {
			t.Errorf("NormalizeSpec(%q) error = %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeSpec(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse(\"Bogus\") did not panic")
		}
	}()
	MustParse("Bogus")
}
