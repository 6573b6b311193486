package store

import (
	"sort"

	"github.com/watchsync/server/internal/domain"
)

// Queue ranking: total order by descending vote count, ties broken by
// insertion order. Every mutation re-sorts with a stable sort so
// equal-vote entries never swap relative to each other.

// AddToQueue appends a zero-vote entry at the tail and re-sorts. By
// stability the new entry settles behind every earlier entry with the
// same count.
func (s *Store) AddToQueue(code domain.RoomCode, video domain.Video, addedBy string) (*domain.Room, domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil, domain.ActivityRecord{}, ErrRoomNotFound
	}
	st.room.Queue = append(st.room.Queue, domain.NewQueueEntry(video, addedBy))
	resortQueue(st.room)

	act := s.appendActivity(st, domain.ActivityQueueAdd, addedBy, map[string]any{
		"videoId": video.VideoID,
		"title":   video.Title,
	})
	return st.room.Clone(), act, nil
}

// RemoveFromQueue deletes by external video identifier. When the same
// video was queued twice only the first match is removed. A miss mutates
// nothing and reports removed=false.
func (s *Store) RemoveFromQueue(code domain.RoomCode, videoID, author string) (*domain.Room, *domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	for i := range st.room.Queue {
		if st.room.Queue[i].VideoID != videoID {
			continue
		}
		st.room.Queue = append(st.room.Queue[:i], st.room.Queue[i+1:]...)
		act := s.appendActivity(st, domain.ActivityQueueRemove, author, map[string]any{
			"videoId": videoID,
		})
		return st.room.Clone(), &act, nil
	}
	return st.room.Clone(), nil, nil
}

// Vote adds the voter's name to the entry. Double-voting by the same name
// is a no-op: changed=false and no re-sort.
func (s *Store) Vote(code domain.RoomCode, videoID, voter string) (*domain.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	for i := range st.room.Queue {
		e := &st.room.Queue[i]
		if e.VideoID != videoID {
			continue
		}
		if e.HasVote(voter) {
			return st.room.Clone(), false, nil
		}
		e.Votes++
		e.VotedBy = append(e.VotedBy, voter)
		resortQueue(st.room)
		return st.room.Clone(), true, nil
	}
	return st.room.Clone(), false, nil
}

// UnVote mirrors Vote: removing an absent vote is a no-op.
func (s *Store) UnVote(code domain.RoomCode, videoID, voter string) (*domain.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[code]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	for i := range st.room.Queue {
		e := &st.room.Queue[i]
		if e.VideoID != videoID {
			continue
		}
		for j, name := range e.VotedBy {
			if name != voter {
				continue
			}
			e.Votes--
			e.VotedBy = append(e.VotedBy[:j], e.VotedBy[j+1:]...)
			resortQueue(st.room)
			return st.room.Clone(), true, nil
		}
		return st.room.Clone(), false, nil
	}
	return st.room.Clone(), false, nil
}

func resortQueue(room *domain.Room) {
	sort.SliceStable(room.Queue, func(i, j int) bool {
		return room.Queue[i].Votes > room.Queue[j].Votes
	})
}
