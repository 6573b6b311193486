package app

import (
	"sync"
	"time"

	"github.com/watchsync/server/internal/domain"
)

// TypingManager debounces typing indicators. At most one pending
// auto-stop timer exists per connection; arming a new one always
// supersedes the old. The auto-stop callback re-checks ownership under
// the same mutex as explicit stops, so a stop and an auto-stop can never
// both fire.
type TypingManager struct {
	mu     sync.Mutex
	window time.Duration
	timers map[domain.ConnID]*time.Timer
}

func NewTypingManager(window time.Duration) *TypingManager {
	return &TypingManager{
		window: window,
		timers: make(map[domain.ConnID]*time.Timer),
	}
}

// Start arms the auto-stop window for a connection. autoStop runs once
// when the window elapses without a newer Start or an explicit Stop.
func (m *TypingManager) Start(id domain.ConnID, autoStop func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[id]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(m.window, func() {
		m.mu.Lock()
		if m.timers[id] != t {
			// Superseded or canceled while we waited on the lock.
			m.mu.Unlock()
			return
		}
		delete(m.timers, id)
		m.mu.Unlock()
		autoStop()
	})
	m.timers[id] = t
}

// Stop cancels the pending auto-stop, if any. It reports whether one was
// pending so callers can decide what to broadcast.
func (m *TypingManager) Stop(id domain.ConnID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(m.timers, id)
	return true
}

// Drop discards any pending timer without firing. Used on disconnect,
// where the user-left notice subsumes the typing-stop.
func (m *TypingManager) Drop(id domain.ConnID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
}
