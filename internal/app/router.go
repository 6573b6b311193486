// Package app wires the session store to the transport layer: the event
// router, the connection registry and the typing debounce timers.
package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/core"
	"github.com/watchsync/server/internal/domain"
	"github.com/watchsync/server/internal/events"
	"github.com/watchsync/server/internal/store"
)

// Router is the single event-processing authority. Every inbound event
// resolves its connection, invokes exactly one store operation, then fans
// the result out. Mutation happens inside the store's critical section;
// dispatch always happens after it, on cloned snapshots.
type Router struct {
	Store  *store.Store
	Conns  *Registry
	Typing *TypingManager
	Events events.Publisher
}

func NewRouter(st *store.Store, conns *Registry, typing *TypingManager, pub events.Publisher) *Router {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Router{Store: st, Conns: conns, Typing: typing, Events: pub}
}

type roomUpdate struct {
	Type string       `json:"type"`
	Room *domain.Room `json:"room"`
}

type roomJoined struct {
	Type       string                  `json:"type"`
	Room       *domain.Room            `json:"room"`
	Messages   []domain.ChatMessage    `json:"messages"`
	Activities []domain.ActivityRecord `json:"activities"`
}

type userNotice struct {
	Type     string        `json:"type"`
	Username string        `json:"username"`
	SocketID domain.ConnID `json:"socketId"`
}

type chatNotice struct {
	Type    string             `json:"type"`
	Message domain.ChatMessage `json:"message"`
}

type activityNotice struct {
	Type     string                `json:"type"`
	Activity domain.ActivityRecord `json:"activity"`
}

type typingNotice struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// unicast delivers to one connection, best-effort. An absent or
// backpressured connection is not an error here.
func (r *Router) unicast(conn domain.ConnID, v any) {
	sc, ok := r.Conns.Get(conn)
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("unicast marshal")
		return
	}
	if err := sc.TrySend(core.Frame(b)); err != nil {
		log.Debug().Err(err).Str("module", "app.router").Str("conn", string(conn)).Msg("unicast dropped")
	}
}

// broadcastRoom marshals once and delivers to every participant of the
// given snapshot.
func (r *Router) broadcastRoom(room *domain.Room, v any) {
	r.broadcastExcept(room, "", v)
}

// broadcastExcept skips the sender; pass an empty ConnID to skip no one.
// The fan-out set comes from the snapshot, i.e. it reflects the state
// after the mutation that produced it.
func (r *Router) broadcastExcept(room *domain.Room, sender domain.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("broadcast marshal")
		return
	}
	r.broadcastExceptRaw(room, sender, core.Frame(b))
}

func (r *Router) broadcastExceptRaw(room *domain.Room, sender domain.ConnID, frame core.Frame) {
	for _, p := range room.Participants {
		if p.ConnID == sender {
			continue
		}
		sc, ok := r.Conns.Get(p.ConnID)
		if !ok {
			continue
		}
		if err := sc.TrySend(frame); err != nil {
			log.Debug().Err(err).Str("module", "app.router").Str("conn", string(p.ConnID)).Msg("broadcast drop")
		}
	}
}

// SendError pushes a typed error notice to the originating connection
// only. Failures never propagate to other participants.
func (r *Router) SendError(conn domain.ConnID, msg string) {
	r.unicast(conn, map[string]any{
		"type":    "error",
		"message": msg,
	})
}
