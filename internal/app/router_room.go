package app

import (
	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
	"github.com/watchsync/server/internal/store"
)

// CreateRoom establishes a fresh room with the caller as its only
// participant. A taken code is rejected; the client picks another. A
// caller still bound elsewhere is moved atomically by the store, and the
// old room gets its departure notices; a rejected create changes nothing.
func (r *Router) CreateRoom(conn domain.ConnID, code domain.RoomCode, name string) {
	res, err := r.Store.CreateRoom(code, name, conn)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	r.dispatchLeft(conn, res.Left)
	r.unicast(conn, roomJoined{
		Type:       "room-joined",
		Room:       res.Room,
		Messages:   []domain.ChatMessage{},
		Activities: []domain.ActivityRecord{res.Activity},
	})
	r.Events.PublishActivity(res.Activity)
	log.Info().Str("module", "app.router").Str("room", string(code)).Str("name", name).Msg("room created")
}

// JoinRoom binds the connection to an existing room. RoomNotFound and
// NameTaken are terminal for this attempt; the router never retries, and
// a failed attempt leaves the caller's current room untouched. A
// successful switch carries the old room's departure in the result; a
// rejoin of the current room goes straight through, the store keeps it
// idempotent.
func (r *Router) JoinRoom(conn domain.ConnID, code domain.RoomCode, name string) {
	res, err := r.Store.JoinRoom(code, name, conn)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	r.dispatchLeft(conn, res.Left)

	r.unicast(conn, roomJoined{
		Type:       "room-joined",
		Room:       res.Room,
		Messages:   r.Store.Messages(code),
		Activities: r.Store.Activities(code),
	})
	r.broadcastExcept(res.Room, conn, userNotice{Type: "user-joined", Username: name, SocketID: conn})
	r.broadcastRoom(res.Room, roomUpdate{Type: "room-updated", Room: res.Room})
	r.broadcastRoom(res.Room, activityNotice{Type: "activity", Activity: res.Activity})
	r.Events.PublishActivity(res.Activity)
	log.Info().Str("module", "app.router").Str("room", string(code)).Str("name", name).Bool("rejoin", res.Rejoined).Msg("joined room")
}

// Disconnect releases everything bound to the connection: pending typing
// timers, presence, and the room itself when it empties. The surviving
// participants learn about it; nobody else does.
func (r *Router) Disconnect(conn domain.ConnID) {
	r.detach(conn)
}

// detach removes the connection from whatever room it is in and tells
// the survivors.
func (r *Router) detach(conn domain.ConnID) {
	res, ok := r.Store.LeaveRoom(conn)
	if !ok {
		return
	}
	r.dispatchLeft(conn, &res)
}

// dispatchLeft fans out the departure half of a leave or a room switch.
// A nil result means the connection was not bound anywhere.
func (r *Router) dispatchLeft(conn domain.ConnID, res *store.LeaveResult) {
	if res == nil {
		return
	}
	// A pending auto-stop must not fire into whatever room the
	// connection resolves to next.
	r.Typing.Drop(conn)

	if res.Room == nil {
		// Room deleted with its last participant. Export the leave for
		// observability even though no room remains to store it.
		r.Events.PublishActivity(domain.NewActivity(res.Code, domain.ActivityLeave, res.Name, nil))
		return
	}

	r.broadcastRoom(res.Room, userNotice{Type: "user-left", Username: res.Name, SocketID: conn})
	r.broadcastRoom(res.Room, roomUpdate{Type: "room-updated", Room: res.Room})
	if res.Activity != nil {
		r.broadcastRoom(res.Room, activityNotice{Type: "activity", Activity: *res.Activity})
		r.Events.PublishActivity(*res.Activity)
	}
	log.Info().Str("module", "app.router").Str("room", string(res.Code)).Str("name", res.Name).Msg("left room")
}
