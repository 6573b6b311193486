package app

import (
	"github.com/watchsync/server/internal/domain"
)

// SendMessage appends to the room log and fans the message out to the
// whole room, sender included. Unresolved connections are silent no-ops.
func (r *Router) SendMessage(conn domain.ConnID, body string) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	msg, err := r.Store.AddMessage(code, p.Name, body)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	room, ok := r.Store.Room(code)
	if !ok {
		return
	}
	r.broadcastRoom(room, chatNotice{Type: "chat-message", Message: msg})
}

// TypingStart tells the rest of the room and arms the auto-stop window.
// The auto-stop re-resolves the connection at fire time; a participant
// who left in the meantime produces no broadcast.
func (r *Router) TypingStart(conn domain.ConnID) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, ok := r.Store.Room(code)
	if !ok {
		return
	}
	r.broadcastExcept(room, conn, typingNotice{Type: "typing-start", Username: p.Name})

	r.Typing.Start(conn, func() {
		code, p, ok := r.Store.Resolve(conn)
		if !ok {
			return
		}
		room, ok := r.Store.Room(code)
		if !ok {
			return
		}
		r.broadcastExcept(room, conn, typingNotice{Type: "typing-stop", Username: p.Name})
	})
}

// TypingStop cancels the pending auto-stop and broadcasts immediately.
func (r *Router) TypingStop(conn domain.ConnID) {
	r.Typing.Stop(conn)

	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, ok := r.Store.Room(code)
	if !ok {
		return
	}
	r.broadcastExcept(room, conn, typingNotice{Type: "typing-stop", Username: p.Name})
}
