package domain

import "github.com/google/uuid"

type QueueEntryID string

// QueueEntry is a candidate video in the shared, vote-ranked playlist.
// Votes always equals len(VotedBy); a name appears in VotedBy at most once.
type QueueEntry struct {
	ID           QueueEntryID `json:"id"`
	VideoID      string       `json:"videoId"`
	Title        string       `json:"title"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	AddedBy      string       `json:"addedBy"`
	Votes        int          `json:"votes"`
	VotedBy      []string     `json:"votedBy"`
}

func NewQueueEntry(video Video, addedBy string) QueueEntry {
	return QueueEntry{
		ID:           QueueEntryID(uuid.NewString()),
		VideoID:      video.VideoID,
		Title:        video.Title,
		ThumbnailURL: video.ThumbnailURL,
		AddedBy:      addedBy,
		VotedBy:      []string{},
	}
}

func (e *QueueEntry) HasVote(name string) bool {
	for _, v := range e.VotedBy {
		if v == name {
			return true
		}
	}
	return false
}

func (e QueueEntry) clone() QueueEntry {
	out := e
	out.VotedBy = make([]string, len(e.VotedBy))
	copy(out.VotedBy, e.VotedBy)
	return out
}
