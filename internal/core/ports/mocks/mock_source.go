package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kamal-hamza/bobina/internal/core/domain"
)

// MockSnapshotSource is an in-memory SnapshotSource for testing
type MockSnapshotSource struct {
	mu       sync.RWMutex
	order    []string
	contents map[string]string
	failOpen map[string]error
	listErr  error
	gates    map[string]chan struct{}
	opened   []string
}

// NewMockSnapshotSource creates an empty mock source
func NewMockSnapshotSource() *MockSnapshotSource {
	return &MockSnapshotSource{
		contents: make(map[string]string),
		failOpen: make(map[string]error),
		gates:    make(map[string]chan struct{}),
	}
}

// AddFile registers a file with the given CSV content
func (m *MockSnapshotSource) AddFile(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.contents[name]; !exists {
		m.order = append(m.order, name)
	}
	m.contents[name] = content
}

// RemoveFile drops a file from the listing
func (m *MockSnapshotSource) RemoveFile(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contents, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// FailOpen makes Open return err for the named file
func (m *MockSnapshotSource) FailOpen(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOpen[name] = err
}

// FailList makes List return err
func (m *MockSnapshotSource) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// Block makes Open for the named file wait until the returned func is called
func (m *MockSnapshotSource) Block(name string) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	gate := make(chan struct{})
	m.gates[name] = gate

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Opened returns the names passed to Open, in call order
func (m *MockSnapshotSource) Opened() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.opened))
	copy(out, m.opened)
	return out
}

// List returns the registered files in insertion order
func (m *MockSnapshotSource) List(ctx context.Context) ([]domain.FileEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	entries := make([]domain.FileEntry, 0, len(m.order))
	for _, name := range m.order {
		entries = append(entries, domain.FileEntry{
			Name:         name,
			RelativePath: name,
			Path:         "/mock/" + name,
		})
	}
	return entries, nil
}

// Open returns the registered content of a file
func (m *MockSnapshotSource) Open(ctx context.Context, entry domain.FileEntry) (io.ReadCloser, error) {
	m.mu.Lock()
	m.opened = append(m.opened, entry.Name)
	gate := m.gates[entry.Name]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failOpen[entry.Name]; ok {
		return nil, err
	}

	content, ok := m.contents[entry.Name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", entry.Name)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
