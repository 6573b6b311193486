package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBadActivityKind = errors.New("unknown activity kind")

type ActivityKind string

const (
	ActivityJoin        ActivityKind = "join"
	ActivityLeave       ActivityKind = "leave"
	ActivityPlay        ActivityKind = "play"
	ActivityPause       ActivityKind = "pause"
	ActivitySeek        ActivityKind = "seek"
	ActivityLoad        ActivityKind = "load"
	ActivityQueueAdd    ActivityKind = "queue-add"
	ActivityQueueRemove ActivityKind = "queue-remove"
)

// ParseActivityKind validates client-reported kinds against the closed set.
func ParseActivityKind(raw string) (ActivityKind, error) {
	switch k := ActivityKind(raw); k {
	case ActivityJoin, ActivityLeave, ActivityPlay, ActivityPause,
		ActivitySeek, ActivityLoad, ActivityQueueAdd, ActivityQueueRemove:
		return k, nil
	}
	return "", ErrBadActivityKind
}

// ActivityRecord is append-only observability data. It is never read back
// to drive logic.
type ActivityRecord struct {
	ID        string         `json:"id"`
	RoomCode  RoomCode       `json:"roomId"`
	Kind      ActivityKind   `json:"type"`
	Author    string         `json:"username"`
	CreatedAt time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewActivity(room RoomCode, kind ActivityKind, author string, metadata map[string]any) ActivityRecord {
	return ActivityRecord{
		ID:        uuid.NewString(),
		RoomCode:  room,
		Kind:      kind,
		Author:    author,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
}
