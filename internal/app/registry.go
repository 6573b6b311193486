package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/core"
	"github.com/watchsync/server/internal/domain"
)

type connEntry struct {
	conn   core.SignalConnection
	cancel context.CancelFunc
}

// Registry maps live connection identifiers to their transport endpoints.
// It knows nothing about rooms; the store's presence index owns that.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

// Bind replaces any previous endpoint for the identifier (reconnect).
// The replaced endpoint is closed and its pumps cancelled so the stale
// socket's goroutines exit; its Unbind will lose the ownership check and
// leave the new binding alone.
func (r *Registry) Bind(id domain.ConnID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.conns[id]; ok {
		if prev.cancel != nil {
			prev.cancel()
		}
		prev.conn.Close()
	}
	r.conns[id] = &connEntry{conn: conn, cancel: cancel}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("bound connection")
}

func (r *Registry) Get(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.conn, true
	}
	return nil, false
}

// Unbind removes the identifier only while it still points at the given
// endpoint. A dying socket must not evict the connection that already
// replaced it.
func (r *Registry) Unbind(id domain.ConnID, conn core.SignalConnection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.conn != conn {
		return false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbound connection")
	return true
}
