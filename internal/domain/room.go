// Package domain contains the session entities, just data plus validation.
package domain

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

const RoomCodeLen = 8

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrBadRoomCode = errors.New("room code must be 8 alphanumeric characters")

// RoomCode is the short opaque identifier of a room. Codes are
// case-normalized to upper; collisions are accepted as negligible,
// there is no uniqueness retry loop.
type RoomCode string

// GenerateRoomCode returns a fresh random code for create requests
// that arrive without one.
func GenerateRoomCode() RoomCode {
	b := make([]byte, RoomCodeLen)
	for i := range b {
		b[i] = roomCodeCharset[rand.Intn(len(roomCodeCharset))]
	}
	return RoomCode(b)
}

// ParseRoomCode normalizes and validates a client-supplied code.
func ParseRoomCode(raw string) (RoomCode, error) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	if len(norm) != RoomCodeLen {
		return "", ErrBadRoomCode
	}
	for i := 0; i < len(norm); i++ {
		if !strings.ContainsRune(roomCodeCharset, rune(norm[i])) {
			return "", ErrBadRoomCode
		}
	}
	return RoomCode(norm), nil
}

// Video identifies a playable item on the external platform.
type Video struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Room is an ephemeral session. Participants keep join order; the first
// participant carries the "first user" semantics for peer offers.
// A room with zero participants must not exist.
type Room struct {
	Code         RoomCode      `json:"id"`
	CreatedAt    time.Time     `json:"createdAt"`
	Participants []Participant `json:"users"`
	CurrentVideo *Video        `json:"currentVideo"`
	Queue        []QueueEntry  `json:"queue"`
}

// Clone returns a deep copy so callers can marshal outside any lock.
func (r *Room) Clone() *Room {
	out := &Room{
		Code:         r.Code,
		CreatedAt:    r.CreatedAt,
		Participants: make([]Participant, len(r.Participants)),
		Queue:        make([]QueueEntry, len(r.Queue)),
	}
	copy(out.Participants, r.Participants)
	for i, e := range r.Queue {
		out.Queue[i] = e.clone()
	}
	if r.CurrentVideo != nil {
		v := *r.CurrentVideo
		out.CurrentVideo = &v
	}
	return out
}
