package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const MaxMessageLen = 500

var (
	ErrMessageEmpty   = errors.New("message empty")
	ErrMessageTooLong = errors.New("message too long")
)

type MessageID string

// ChatMessage is immutable once created, append-only per room.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	RoomCode  RoomCode  `json:"roomId"`
	Author    string    `json:"username"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

func NewChatMessage(room RoomCode, author, body string) (ChatMessage, error) {
	if err := ValidateMessageBody(body); err != nil {
		return ChatMessage{}, err
	}
	return ChatMessage{
		ID:        MessageID(uuid.NewString()),
		RoomCode:  room,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now(),
	}, nil
}

func ValidateMessageBody(body string) error {
	if len(body) == 0 {
		return ErrMessageEmpty
	}
	if len(body) > MaxMessageLen {
		return ErrMessageTooLong
	}
	return nil
}
