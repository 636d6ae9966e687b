package registry

import (
	"strings"
	"sync"

	"github.com/juju/errors"
)

// MemoryStore is an in-process registry tree. Every Dial returns a new
// session on the same tree, so data outlives the session like a persistent
// node in a real cluster.
type MemoryStore struct {
	mu       sync.Mutex
	children map[string][]string // parent path -> child names in creation order
	opened   int
	closed   int
}

// NewMemoryStore returns a tree containing only "/".
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		children: map[string][]string{separator: nil},
	}
}

// Dial opens a session. The endpoint is ignored.
func (m *MemoryStore) Dial(endpoint string) (Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
	return &memorySession{tree: m}, nil
}

// Sessions reports how many sessions were opened and closed so far.
func (m *MemoryStore) Sessions() (opened, closed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened, m.closed
}

// Put creates path and any missing ancestors.
func (m *MemoryStore) Put(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := ""
	for _, name := range strings.Split(strings.Trim(path, separator), separator) {
		parent := current
		if parent == "" {
			parent = separator
		}
		current += separator + name
		if !m.exists(current) {
			m.children[parent] = append(m.children[parent], name)
			m.children[current] = nil
		}
	}
}

func (m *MemoryStore) exists(path string) bool {
	_, ok := m.children[path]
	return ok
}

// DialMemory returns a Dialer keeping one MemoryStore per endpoint for the
// life of the Dialer.
func DialMemory() Dialer {
	var mu sync.Mutex
	trees := make(map[string]*MemoryStore)
	return func(endpoint string) (Store, error) {
		mu.Lock()
		m, ok := trees[endpoint]
		if !ok {
			m = NewMemoryStore()
			trees[endpoint] = m
		}
		mu.Unlock()
		return m.Dial(endpoint)
	}
}

type memorySession struct {
	tree   *MemoryStore
	closed bool
}

var errSessionClosed = errors.New("registry: session closed")

func (s *memorySession) Children(path string) ([]string, error) {
	m := s.tree
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed {
		return nil, errSessionClosed
	}
	names, ok := m.children[path]
	if !ok {
		return nil, noNode(path)
	}
	return append([]string(nil), names...), nil
}

func (s *memorySession) Exists(path string) (bool, error) {
	m := s.tree
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed {
		return false, errSessionClosed
	}
	return m.exists(path), nil
}

func (s *memorySession) Create(path string) error {
	m := s.tree
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed {
		return errSessionClosed
	}
	if m.exists(path) {
		return errors.AlreadyExistsf("node %q", path)
	}
	parent := parentPath(path)
	if !m.exists(parent) {
		return noNode(parent)
	}
	m.children[parent] = append(m.children[parent], path[strings.LastIndex(path, separator)+1:])
	m.children[path] = nil
	return nil
}

func (s *memorySession) Delete(path string) error {
	m := s.tree
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed {
		return errSessionClosed
	}
	names, ok := m.children[path]
	if !ok {
		return noNode(path)
	}
	if len(names) > 0 {
		return errors.Errorf("node %q not empty", path)
	}
	delete(m.children, path)
	parent := parentPath(path)
	name := path[strings.LastIndex(path, separator)+1:]
	siblings := m.children[parent]
	for i, sibling := range siblings {
		if sibling == name {
			m.children[parent] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memorySession) Close() error {
	m := s.tree
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.closed {
		return errSessionClosed
	}
	s.closed = true
	m.closed++
	return nil
}
