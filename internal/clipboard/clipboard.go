// Package clipboard adapts the system clipboard for the copy actions.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard receives copied text
type Clipboard interface {
	WriteAll(text string) error
}

// System writes to the OS clipboard
type System struct{}

// NewSystem returns the OS clipboard, or nil when none is available
func NewSystem() Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return System{}
}

func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Memory keeps the last written text; used headless and in tests
type Memory struct {
	mu   sync.Mutex
	text string
	n    int
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.n++
	return nil
}

// Text returns the last written text
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteAll was called
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}
