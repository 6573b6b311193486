package app

import (
	"github.com/watchsync/server/internal/core"
	"github.com/watchsync/server/internal/domain"
)

// AddVideo appends to the shared queue and broadcasts the re-ranked room.
func (r *Router) AddVideo(conn domain.ConnID, video domain.Video) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, act, err := r.Store.AddToQueue(code, video, p.Name)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	r.broadcastRoom(room, roomUpdate{Type: "room-updated", Room: room})
	r.broadcastRoom(room, activityNotice{Type: "activity", Activity: act})
	r.Events.PublishActivity(act)
}

// RemoveVideo removes the first queue entry matching the external video
// id. A miss mutates nothing and broadcasts nothing.
func (r *Router) RemoveVideo(conn domain.ConnID, videoID string) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, act, err := r.Store.RemoveFromQueue(code, videoID, p.Name)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	if act == nil {
		return
	}
	r.broadcastRoom(room, roomUpdate{Type: "room-updated", Room: room})
	r.broadcastRoom(room, activityNotice{Type: "activity", Activity: *act})
	r.Events.PublishActivity(*act)
}

// LoadVideo overwrites the room's current video. Queue membership is
// untouched, loading is not dequeueing.
func (r *Router) LoadVideo(conn domain.ConnID, video domain.Video) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, err := r.Store.SetCurrentVideo(code, video)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	r.broadcastRoom(room, roomUpdate{Type: "room-updated", Room: room})

	// Best-effort activity; a vanished room just drops it.
	act, err := r.Store.AddActivity(code, domain.ActivityLoad, p.Name, map[string]any{
		"videoId": video.VideoID,
		"title":   video.Title,
	})
	if err != nil {
		return
	}
	r.broadcastRoom(room, activityNotice{Type: "activity", Activity: act})
	r.Events.PublishActivity(act)
}

// VoteVideo records one vote per display name per entry. A duplicate vote
// changes nothing and broadcasts nothing.
func (r *Router) VoteVideo(conn domain.ConnID, videoID string) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, changed, err := r.Store.Vote(code, videoID, p.Name)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	if !changed {
		return
	}
	r.broadcastRoom(room, roomUpdate{Type: "room-updated", Room: room})
}

// UnvoteVideo mirrors VoteVideo.
func (r *Router) UnvoteVideo(conn domain.ConnID, videoID string) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, changed, err := r.Store.UnVote(code, videoID, p.Name)
	if err != nil {
		r.SendError(conn, err.Error())
		return
	}
	if !changed {
		return
	}
	r.broadcastRoom(room, roomUpdate{Type: "room-updated", Room: room})
}

// RelayPlayback forwards the raw playback-state frame verbatim to
// everyone else in the room. Never persisted.
func (r *Router) RelayPlayback(conn domain.ConnID, frame core.Frame) {
	code, _, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	room, ok := r.Store.Room(code)
	if !ok {
		return
	}
	r.broadcastExceptRaw(room, conn, frame)
}

// ReportActivity records a client-reported playback activity (play,
// pause, seek) and fans the record out room-wide.
func (r *Router) ReportActivity(conn domain.ConnID, kind domain.ActivityKind, metadata map[string]any) {
	code, p, ok := r.Store.Resolve(conn)
	if !ok {
		return
	}
	act, err := r.Store.AddActivity(code, kind, p.Name, metadata)
	if err != nil {
		return
	}
	room, ok := r.Store.Room(code)
	if !ok {
		return
	}
	r.broadcastRoom(room, activityNotice{Type: "activity", Activity: act})
	r.Events.PublishActivity(act)
}
