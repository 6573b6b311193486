package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxNameLen = 50

var (
	ErrNameEmpty   = errors.New("display name empty")
	ErrNameTooLong = errors.New("display name too long")
)

type (
	// ParticipantID is unique within the process.
	ParticipantID string

	// ConnID identifies the transport connection a participant is
	// currently bound to.
	ConnID string
)

// Participant is a room-scoped identity. Name is unique within its room,
// not globally.
type Participant struct {
	ID     ParticipantID `json:"id"`
	Name   string        `json:"username"`
	ConnID ConnID        `json:"socketId"`
}

// NewParticipant avoids raw literals in callers and keeps validation in
// one place.
func NewParticipant(name string, conn ConnID) (Participant, error) {
	if err := ValidateName(name); err != nil {
		return Participant{}, err
	}
	return Participant{
		ID:     ParticipantID(uuid.NewString()),
		Name:   name,
		ConnID: conn,
	}, nil
}

func ValidateName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}
