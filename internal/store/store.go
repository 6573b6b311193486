// Package store owns all room state: rooms, participants, messages,
// activities and the presence index. It is pure data plus mutation
// operations behind one exclusive critical section; it never touches
// transport resources.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

type roomState struct {
	room       *domain.Room
	messages   []domain.ChatMessage
	activities []domain.ActivityRecord
}

// presenceEntry is the reverse index value for one connection. It is a
// back-reference only; the room's participant list stays the source of
// truth for participant existence.
type presenceEntry struct {
	room        domain.RoomCode
	participant domain.ParticipantID
}

type Store struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomCode]*roomState
	byConn map[domain.ConnID]presenceEntry
}

func NewStore() *Store {
	return &Store{
		rooms:  make(map[domain.RoomCode]*roomState),
		byConn: make(map[domain.ConnID]presenceEntry),
	}
}

// JoinResult carries everything the router needs to dispatch after a
// successful create or join, cloned so marshalling happens outside the lock.
// Left is set when the connection was bound to another room and was moved
// in the same critical section; a failed join never sets it.
type JoinResult struct {
	Room        *domain.Room
	Participant domain.Participant
	Activity    domain.ActivityRecord
	Rejoined    bool
	Left        *LeaveResult
}

// LeaveResult reports a participant removal. Room is nil when the room
// emptied and was deleted; Activity is nil in that case too, the record
// would have no room to live in.
type LeaveResult struct {
	Code     domain.RoomCode
	Room     *domain.Room
	Name     string
	Activity *domain.ActivityRecord
}

// CreateRoom creates a room with a single participant, an empty queue and
// no current video. A taken code is rejected with ErrRoomExists. A
// connection bound elsewhere is moved atomically; a rejected create leaves
// its current room untouched.
func (s *Store) CreateRoom(code domain.RoomCode, name string, conn domain.ConnID) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[code]; ok {
		return JoinResult{}, ErrRoomExists
	}
	p, err := domain.NewParticipant(name, conn)
	if err != nil {
		return JoinResult{}, err
	}
	left := s.leaveLocked(conn)

	st := &roomState{
		room: &domain.Room{
			Code:         code,
			CreatedAt:    time.Now(),
			Participants: []domain.Participant{p},
			Queue:        []domain.QueueEntry{},
		},
	}
	s.rooms[code] = st
	s.byConn[conn] = presenceEntry{room: code, participant: p.ID}

	act := s.appendActivity(st, domain.ActivityJoin, name, nil)
	log.Info().Str("module", "store").Str("room", string(code)).Str("name", name).Msg("room created")

	return JoinResult{Room: st.room.Clone(), Participant: p, Activity: act, Left: left}, nil
}

// JoinRoom appends a participant preserving join order. Rebinding the same
// connection to the same name is an idempotent rejoin: no duplicate
// participant, no conflict, but still a join activity for observability.
// A connection bound to another room is moved in the same critical
// section, and only after every check has passed; a failed join leaves
// the previous room exactly as it was.
func (s *Store) JoinRoom(code domain.RoomCode, name string, conn domain.ConnID) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}

	for i := range st.room.Participants {
		existing := &st.room.Participants[i]
		if existing.Name != name {
			continue
		}
		if existing.ConnID != conn {
			return JoinResult{}, ErrNameTaken
		}
		s.byConn[conn] = presenceEntry{room: code, participant: existing.ID}
		act := s.appendActivity(st, domain.ActivityJoin, name, nil)
		return JoinResult{Room: st.room.Clone(), Participant: *existing, Activity: act, Rejoined: true}, nil
	}

	// A connection already participating under another name keeps its
	// slot and takes the new name; the conflict scan above guarantees
	// the name is free. One participant per connection per room.
	for i := range st.room.Participants {
		existing := &st.room.Participants[i]
		if existing.ConnID != conn {
			continue
		}
		existing.Name = name
		s.byConn[conn] = presenceEntry{room: code, participant: existing.ID}
		act := s.appendActivity(st, domain.ActivityJoin, name, nil)
		return JoinResult{Room: st.room.Clone(), Participant: *existing, Activity: act, Rejoined: true}, nil
	}

	p, err := domain.NewParticipant(name, conn)
	if err != nil {
		return JoinResult{}, err
	}
	left := s.leaveLocked(conn)
	st.room.Participants = append(st.room.Participants, p)
	s.byConn[conn] = presenceEntry{room: code, participant: p.ID}

	act := s.appendActivity(st, domain.ActivityJoin, name, nil)
	log.Info().Str("module", "store").Str("room", string(code)).Str("name", name).Msg("participant joined")

	return JoinResult{Room: st.room.Clone(), Participant: p, Activity: act, Left: left}, nil
}

// LeaveRoom resolves the connection via presence and removes its
// participant. When the last participant leaves, the room and everything
// scoped to it is deleted in the same critical section so no empty room
// is ever rejoinable. The removed name is returned even then, the
// user-left notice still needs it.
func (s *Store) LeaveRoom(conn domain.ConnID) (LeaveResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.leaveLocked(conn)
	if res == nil {
		return LeaveResult{}, false
	}
	return *res, true
}

// leaveLocked must be called with s.mu held. Returns nil when the
// connection was not bound anywhere.
func (s *Store) leaveLocked(conn domain.ConnID) *LeaveResult {
	entry, ok := s.byConn[conn]
	if !ok {
		return nil
	}
	delete(s.byConn, conn)

	st, ok := s.rooms[entry.room]
	if !ok {
		// Presence must never outlive its room; treat as already gone.
		return nil
	}

	idx := -1
	for i := range st.room.Participants {
		if st.room.Participants[i].ID == entry.participant {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	name := st.room.Participants[idx].Name
	st.room.Participants = append(st.room.Participants[:idx], st.room.Participants[idx+1:]...)

	if len(st.room.Participants) == 0 {
		delete(s.rooms, entry.room)
		log.Info().Str("module", "store").Str("room", string(entry.room)).Msg("room emptied, deleted")
		return &LeaveResult{Code: entry.room, Name: name}
	}

	act := s.appendActivity(st, domain.ActivityLeave, name, nil)
	return &LeaveResult{Code: entry.room, Room: st.room.Clone(), Name: name, Activity: &act}
}

// Resolve maps a connection to its room and participant. Unknown
// connections return ok=false; callers treat that as a silent no-op,
// events from never-joined or already-cleaned connections are expected.
func (s *Store) Resolve(conn domain.ConnID) (domain.RoomCode, domain.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byConn[conn]
	if !ok {
		return "", domain.Participant{}, false
	}
	st, ok := s.rooms[entry.room]
	if !ok {
		return "", domain.Participant{}, false
	}
	for _, p := range st.room.Participants {
		if p.ID == entry.participant {
			return entry.room, p, true
		}
	}
	return "", domain.Participant{}, false
}

func (s *Store) AddMessage(code domain.RoomCode, author, body string) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return domain.ChatMessage{}, ErrRoomNotFound
	}
	msg, err := domain.NewChatMessage(code, author, body)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	st.messages = append(st.messages, msg)
	return msg, nil
}

// AddActivity records a best-effort observability event. A missing room
// yields ErrRoomNotFound; callers are expected to drop it, not fail.
func (s *Store) AddActivity(code domain.RoomCode, kind domain.ActivityKind, author string, metadata map[string]any) (domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return domain.ActivityRecord{}, ErrRoomNotFound
	}
	return s.appendActivity(st, kind, author, metadata), nil
}

// SetCurrentVideo overwrites CurrentVideo unconditionally. The queue is
// untouched: playing does not dequeue.
func (s *Store) SetCurrentVideo(code domain.RoomCode, video domain.Video) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	v := video
	st.room.CurrentVideo = &v
	return st.room.Clone(), nil
}

// Room returns a cloned snapshot for read-only surfaces.
func (s *Store) Room(code domain.RoomCode) (*domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	return st.room.Clone(), true
}

func (s *Store) Messages(code domain.RoomCode) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil
	}
	out := make([]domain.ChatMessage, len(st.messages))
	copy(out, st.messages)
	return out
}

func (s *Store) Activities(code domain.RoomCode) []domain.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil
	}
	out := make([]domain.ActivityRecord, len(st.activities))
	copy(out, st.activities)
	return out
}

// appendActivity must be called with s.mu held.
func (s *Store) appendActivity(st *roomState, kind domain.ActivityKind, author string, metadata map[string]any) domain.ActivityRecord {
	act := domain.NewActivity(st.room.Code, kind, author, metadata)
	st.activities = append(st.activities, act)
	return act
}
