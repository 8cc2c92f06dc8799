package session

import (
	"sync"

	"mastery-service/internal/engine"
)

// Entry holds one live session's controller. Its mutex serializes turns
// so concurrent frames on the same session cannot interleave state
// updates.
type Entry struct {
	mu         sync.Mutex
	Controller *engine.Controller
}

// Do runs fn with the entry's turn lock held.
func (e *Entry) Do(fn func(*engine.Controller) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.Controller)
}

// Manager is the process-local registry of active sessions. Sessions
// live here between start and disconnect; a restart drops them all,
// which is acceptable because the durable state lives in the database.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewManager() *Manager {
	return &Manager{entries: make(map[string]*Entry)}
}

func (m *Manager) Put(sessionID string, ctrl *engine.Controller) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := &Entry{Controller: ctrl}
	m.entries[sessionID] = entry
	return entry
}

func (m *Manager) Get(sessionID string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[sessionID]
	return entry, ok
}

func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
