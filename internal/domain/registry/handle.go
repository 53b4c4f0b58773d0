package registry

import (
	"errors"
	"sync"
)

// Handle is a held lock on a tracked path. Release it exactly once; extra
// calls are ignored.
type Handle struct {
	manager *Manager
	entry   *Entry
	mode    Mode
	path    string
	once    sync.Once
}

// Path returns the canonical path the handle was acquired for
func (h *Handle) Path() string {
	return h.path
}

// Mode returns how the lock is held
func (h *Handle) Mode() Mode {
	return h.mode
}

// Entry returns the underlying registry entry
func (h *Handle) Entry() *Entry {
	return h.entry
}

// Release unlocks the entry
func (h *Handle) Release() {
	h.once.Do(func() {
		unlock(h.entry, h.mode)
	})
}

// AcquireShared resolves path (creating its entry if needed) and takes the
// entry's lock in shared mode.
func (m *Manager) AcquireShared(path string) (*Handle, error) {
	return m.acquire(path, Shared, true)
}

// AcquireExclusive resolves path (creating its entry if needed) and takes
// the entry's lock in exclusive mode.
func (m *Manager) AcquireExclusive(path string) (*Handle, error) {
	return m.acquire(path, Exclusive, true)
}

// AcquireTracked takes the exclusive lock of an already tracked path.
// Returns ErrNotTracked if the path has never been registered.
func (m *Manager) AcquireTracked(path string) (*Handle, error) {
	return m.acquire(path, Exclusive, false)
}

func (m *Manager) acquire(path string, mode Mode, create bool) (*Handle, error) {
	key, ok := validKey(path)
	if !ok {
		return nil, ErrInvalidPath
	}

	for {
		var entry *Entry
		if create {
			e, err := m.Resolve(key)
			if err != nil {
				return nil, err
			}
			entry = e
		} else {
			e, ok := m.Lookup(key)
			if !ok {
				if m.isClosed() {
					return nil, ErrClosed
				}
				return nil, ErrNotTracked
			}
			entry = e
		}

		lock(entry, mode)

		// A rename may have re-keyed the entry while we waited
		if m.Path(entry) == key {
			return &Handle{manager: m, entry: entry, mode: mode, path: key}, nil
		}
		unlock(entry, mode)
	}
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func lock(entry *Entry, mode Mode) {
	if mode == Exclusive {
		entry.lock.Lock()
		return
	}
	entry.lock.RLock()
}

func unlock(entry *Entry, mode Mode) {
	if mode == Exclusive {
		entry.lock.Unlock()
		return
	}
	entry.lock.RUnlock()
}

// Rename is a pending re-key of an entry. While pending, the new path
// resolves to the same entry, so its exclusive lock holds off callers of
// either path until Commit or Abort.
type Rename struct {
	manager *Manager
	entry   *Entry
	oldKey  string
	newKey  string
	done    bool
}

// ReserveRename claims newPath for the entry held by h. The handle must be
// exclusive. Returns ErrAlreadyTracked if newPath belongs to a distinct entry.
func (m *Manager) ReserveRename(h *Handle, newPath string) (*Rename, error) {
	if h == nil || h.mode != Exclusive {
		return nil, errors.New("rename requires an exclusive handle")
	}
	newKey, ok := validKey(newPath)
	if !ok {
		return nil, ErrInvalidPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	r := &Rename{manager: m, entry: h.entry, oldKey: h.entry.path, newKey: newKey}
	if newKey == r.oldKey {
		return r, nil
	}
	if other, ok := m.entries[newKey]; ok && other != h.entry {
		return nil, ErrAlreadyTracked
	}
	m.entries[newKey] = h.entry
	return r, nil
}

// Commit moves the entry to its new key and frees the old one
func (r *Rename) Commit() {
	m := r.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.done {
		return
	}
	r.done = true
	if r.newKey == r.oldKey {
		return
	}
	if m.entries != nil {
		delete(m.entries, r.oldKey)
	}
	r.entry.path = r.newKey
}

// Abort drops the reservation and leaves the entry at its old key
func (r *Rename) Abort() {
	m := r.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.done {
		return
	}
	r.done = true
	if r.newKey == r.oldKey || m.entries == nil {
		return
	}
	if m.entries[r.newKey] == r.entry {
		delete(m.entries, r.newKey)
	}
}
