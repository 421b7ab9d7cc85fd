package ops

import "sync"

// Manager hands out tokens keyed by operation id, guaranteeing at most
// one live operation per id: starting an operation cancels any
// in-flight operation under the same id before the new token exists.
//
// Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	active map[string]*Source
}

func NewManager() *Manager {
	return &Manager{active: make(map[string]*Source)}
}

// Start cancels any prior operation under id, then returns a fresh
// token. The prior operation observes its cancellation before the
// returned token can be used.
func (m *Manager) Start(id, reason string) *Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked(id, reason)
	src := NewSource(nil)
	m.active[id] = src
	return src.Token()
}

// Cancel cancels the operation under id, if any.
func (m *Manager) Cancel(id, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked(id, reason)
}

func (m *Manager) cancelLocked(id, reason string) {
	if src, ok := m.active[id]; ok {
		if reason == "" {
			reason = "new operation started"
		}
		src.Cancel(reason)
		delete(m.active, id)
	}
}

// CancelAll cancels every active operation.
func (m *Manager) CancelAll(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reason == "" {
		reason = "all operations cancelled"
	}
	for id, src := range m.active {
		src.Cancel(reason)
		delete(m.active, id)
	}
}

// Complete removes a finished operation without cancelling its token.
func (m *Manager) Complete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, id)
}

// Active reports whether an operation is in flight under id.
func (m *Manager) Active(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[id]
	return ok
}

// ActiveCount returns the number of in-flight operations.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
