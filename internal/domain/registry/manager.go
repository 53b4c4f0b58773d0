package registry

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultCapacity is the number of distinct paths a Manager tracks unless
// configured otherwise.
const DefaultCapacity = 100

// MaxPathLen bounds a canonical key, matching Linux PATH_MAX
const MaxPathLen = 4096

var (
	ErrResourceExhausted = errors.New("lock registry is at capacity")
	ErrAlreadyTracked    = errors.New("path is already tracked by another entry")
	ErrNotTracked        = errors.New("path is not tracked")
	ErrClosed            = errors.New("lock registry is closed")
	ErrInvalidPath       = errors.New("path is empty or too long")
)

// Mode selects how a Handle holds its entry's lock
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Entry is the lock record for one path. Its key may change through a
// rename, but the lock itself is never replaced.
type Entry struct {
	lock sync.RWMutex
	path string // Protected by Manager.mu
}

// Manager owns every per-path lock. Entries are created on first use and
// kept until Close, even after the underlying file is gone.
type Manager struct {
	mu       sync.Mutex
	entries  map[string]*Entry // Protected by mu; may briefly alias during rename
	count    int               // Distinct entries, protected by mu
	capacity int
	closed   bool
	onChange func(entries int)
}

// New creates a registry that tracks at most capacity distinct paths
func New(capacity int) (*Manager, error) {
	if capacity <= 0 {
		return nil, errors.New("registry capacity must be positive")
	}
	return &Manager{
		entries:  make(map[string]*Entry, capacity),
		capacity: capacity,
	}, nil
}

// WithObserver registers a callback invoked with the entry count whenever
// a new entry is created.
func (m *Manager) WithObserver(fn func(entries int)) *Manager {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
	return m
}

// Canonical returns the key a path is tracked under
func Canonical(path string) string {
	return filepath.Clean(path)
}

// Resolve finds the entry for path, creating it if the path is unseen and
// capacity remains. Concurrent first callers for the same path always
// receive the same entry.
func (m *Manager) Resolve(path string) (*Entry, error) {
	key, ok := validKey(path)
	if !ok {
		return nil, ErrInvalidPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if entry, ok := m.entries[key]; ok {
		return entry, nil
	}
	if m.count >= m.capacity {
		return nil, ErrResourceExhausted
	}

	entry := &Entry{path: key}
	m.entries[key] = entry
	m.count++
	if m.onChange != nil {
		m.onChange(m.count)
	}
	return entry, nil
}

func validKey(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	key := Canonical(path)
	return key, len(key) <= MaxPathLen
}

// Lookup returns the entry for path without creating one
func (m *Manager) Lookup(path string) (*Entry, bool) {
	key := Canonical(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, false
	}
	entry, ok := m.entries[key]
	return entry, ok
}

// Path returns the key the entry is currently tracked under
func (m *Manager) Path(entry *Entry) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return entry.path
}

// Len returns the number of distinct tracked paths
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Capacity returns the configured maximum number of tracked paths
func (m *Manager) Capacity() int {
	return m.capacity
}

// Paths returns the tracked paths in sorted order
func (m *Manager) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, 0, m.count)
	for key, entry := range m.entries {
		// Skip in-flight rename reservations
		if entry.path == key {
			paths = append(paths, key)
		}
	}
	sort.Strings(paths)
	return paths
}

// Close drops every entry. Locks already held stay valid for their holders;
// new resolutions fail with ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.entries = nil
	m.count = 0
	return nil
}
