package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleTOML = `
prefix = "C-a"
log_level = "debug"

[[bindings]]
key = "c"
command = "new-window"

[[bindings]]
key = "M-Left"
command = "select-pane"
args = ["-L"]
no_prefix = true
`

const sampleYAML = `
prefix: C-a
log_level: debug
bindings:
  - key: c
    command: new-window
  - key: M-Left
    command: select-pane
    args: ["-L"]
    no_prefix: true
`

var sampleConfig = &Config{
	Prefix:   "C-a",
	LogLevel: "debug",
	Bindings: []BindingConfig{
		{Key: "c", Command: "new-window"},
		{Key: "M-Left", Command: "select-pane", Args: []string{"-L"}, NoPrefix: true},
	},
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"keys.toml", sampleTOML},
		{"keys.yaml", sampleYAML},
		{"keys.yml", sampleYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.name, tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(sampleConfig, cfg); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml"} {
		cfg, err := Load(writeFile(t, name, ""))
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if diff := cmp.Diff(&Config{}, cfg); diff != "" {
			t.Errorf("Load(%s) mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrFileNotFound", err)
	}
	if _, err := Load(writeFile(t, "keys.json", "{}")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(json) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		format   Format
		wantLine int
	}{
		{"toml syntax", "prefix = \"C-a\"\nbindings = [\n", FormatTOML, 0},
		{"toml unknown field", "prefix = \"C-a\"\nprefx = \"C-b\"\n", FormatTOML, 2},
		{"yaml syntax", "prefix: C-a\nbindings: [\n", FormatYAML, 0},
		{"yaml unknown field", "prefix: C-a\nprefx: C-b\n", FormatYAML, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test", []byte(tt.content), tt.format)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Path != "test" {
				t.Errorf("Path = %q, want test", pe.Path)
			}
			if tt.wantLine > 0 && pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d (%v)", pe.Line, tt.wantLine, pe)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		codes []ValidationErrorCode
	}{
		{"ok", *sampleConfig, nil},
		{"bad prefix", Config{Prefix: "C-Nope"}, []ValidationErrorCode{ErrCodeInvalidKey}},
		{"wildcard prefix", Config{Prefix: "Any"}, []ValidationErrorCode{ErrCodeInvalidKey}},
		{"bad level", Config{LogLevel: "loud"}, []ValidationErrorCode{ErrCodeInvalidEnum}},
		{"missing fields", Config{Bindings: []BindingConfig{{}}},
			[]ValidationErrorCode{ErrCodeRequiredMissing, ErrCodeRequiredMissing}},
		{"bad key", Config{Bindings: []BindingConfig{{Key: "S-x", Command: "x"}}},
			[]ValidationErrorCode{ErrCodeInvalidKey}},
		{"duplicate", Config{Bindings: []BindingConfig{
			{Key: "C-m", Command: "a"},
			{Key: "Enter", Command: "b"},
		}}, []ValidationErrorCode{ErrCodeDuplicate}},
		{"same key both tables", Config{Bindings: []BindingConfig{
			{Key: "x", Command: "a"},
			{Key: "x", Command: "b", NoPrefix: true},
		}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.codes == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() error = %v, want ErrValidationFailed", err)
			}
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Validate() error type = %T, want ValidationErrors", err)
			}
			var codes []ValidationErrorCode
			for _, e := range errs {
				codes = append(codes, e.Code)
			}
			if diff := cmp.Diff(tt.codes, codes); diff != "" {
				t.Errorf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		data, err := Marshal(sampleConfig, format)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", format, err)
		}
		cfg, err := Parse("roundtrip", data, format)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v\n%s", format, err, data)
		}
		if diff := cmp.Diff(sampleConfig, cfg); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", format, diff)
		}
	}
}
