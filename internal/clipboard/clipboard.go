// Package clipboard provides the clipboards copied scroll-buffer selections
// land in: the system clipboard, and an in-memory one for headless hosts.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// Memory is a process-local clipboard. The zero value is ready to use.
type Memory struct {
	mu   sync.Mutex
	text string
	n    int
}

// NewMemory creates an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// SetText replaces the clipboard contents.
func (m *Memory) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.n++
	return nil
}

// Text returns the clipboard contents.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times SetText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// System writes to the operating system clipboard.
type System struct{}

// SetText copies text to the system clipboard.
func (System) SetText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// Text reads the system clipboard.
func (System) Text() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("system clipboard: %w", err)
	}
	return text, nil
}

// Available reports whether a system clipboard tool was found.
func Available() bool {
	return !clipboard.Unsupported
}

// Setter is the write side shared by Memory and System.
type Setter interface {
	SetText(text string) error
}

// Default returns the system clipboard when one is available, and an
// in-memory clipboard otherwise.
func Default() Setter {
	if Available() {
		return System{}
	}
	return NewMemory()
}
