package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/muxkeys/internal/input/key"
	"github.com/dshills/muxkeys/internal/logging"
)

// Config is the content of a binding file.
type Config struct {
	// Prefix is the prefix chord. Empty keeps the dispatcher's default.
	Prefix string `toml:"prefix" yaml:"prefix"`

	// LogLevel is one of debug, info, warn or error. Empty leaves the
	// level unchanged.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	Bindings []BindingConfig `toml:"bindings" yaml:"bindings"`
}

// BindingConfig binds one key to a command.
type BindingConfig struct {
	Key      string   `toml:"key" yaml:"key"`
	Command  string   `toml:"command" yaml:"command"`
	Args     []string `toml:"args,omitempty" yaml:"args,omitempty"`
	NoPrefix bool     `toml:"no_prefix,omitempty" yaml:"no_prefix,omitempty"`
}

// NeedsPrefix reports whether the binding fires only after the prefix.
func (b BindingConfig) NeedsPrefix() bool {
	return !b.NoPrefix
}

// slot identifies the dispatcher record a binding occupies.
type slot struct {
	noPrefix bool
	key      string
}

func (b BindingConfig) slot() (slot, error) {
	canonical, err := key.NormalizeSpec(b.Key)
	if err != nil {
		return slot{}, err
	}
	return slot{noPrefix: b.NoPrefix, key: canonical}, nil
}

func (b BindingConfig) sameAction(o BindingConfig) bool {
	if b.Command != o.Command || len(b.Args) != len(o.Args) {
		return false
	}
	for i := range b.Args {
		if b.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// Validate checks every field and returns all problems found as
// ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Prefix != "" {
		seq, err := key.ParseSequence(c.Prefix)
		switch {
		case err != nil:
			errs = append(errs, &ValidationError{Field: "prefix", Message: err.Error(), Value: c.Prefix, Code: ErrCodeInvalidKey})
		case seq.HasWildcard():
			errs = append(errs, &ValidationError{Field: "prefix", Message: "prefix cannot contain Any", Value: c.Prefix, Code: ErrCodeInvalidKey})
		}
	}

	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, &ValidationError{Field: "log_level", Message: err.Error(), Value: c.LogLevel, Code: ErrCodeInvalidEnum})
		}
	}

	seen := make(map[slot]int)
	for i, b := range c.Bindings {
		field := fmt.Sprintf("bindings[%d]", i)
		if b.Command == "" {
			errs = append(errs, &ValidationError{Field: field + ".command", Message: "command is required", Code: ErrCodeRequiredMissing})
		}
		if strings.TrimSpace(b.Key) == "" {
			errs = append(errs, &ValidationError{Field: field + ".key", Message: "key is required", Code: ErrCodeRequiredMissing})
			continue
		}
		s, err := b.slot()
		if err != nil {
			errs = append(errs, &ValidationError{Field: field + ".key", Message: err.Error(), Value: b.Key, Code: ErrCodeInvalidKey})
			continue
		}
		if prev, ok := seen[s]; ok {
			errs = append(errs, &ValidationError{
				Field:   field + ".key",
				Message: fmt.Sprintf("already bound by bindings[%d]", prev),
				Value:   b.Key,
				Code:    ErrCodeDuplicate,
			})
			continue
		}
		seen[s] = i
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Format is a binding file syntax.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// ParseFormat parses a format name: toml, yaml or yml.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return f, nil
}

// Load reads, parses and validates a binding file.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data, format)
}

// Parse decodes and validates data. source names the input in errors.
func Parse(source string, data []byte, format Format) (*Config, error) {
	var (
		cfg Config
		err error
	)
	switch format {
	case FormatYAML:
		err = decodeYAML(source, data, &cfg)
	default:
		err = decodeTOML(source, data, &cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeTOML(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	var se *toml.StrictMissingError
	if errors.As(err, &se) && len(se.Errors) > 0 {
		pe.Line, pe.Column = se.Errors[0].Position()
		pe.Message = "unknown field: " + strings.Join(se.Errors[0].Key(), ".")
	}
	return pe
}

func decodeYAML(source string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	return &ParseError{Path: source, Line: yamlLine(msg), Message: msg, Err: err}
}

// yamlLine extracts N from messages of the form "line N: ...".
func yamlLine(msg string) int {
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	rest := msg[i+len("line "):]
	end := strings.IndexByte(rest, ':')
	if end < 0 {
		return 0
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return n
}

// Marshal encodes cfg in the given format.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(cfg)
	}
	return toml.Marshal(cfg)
}
