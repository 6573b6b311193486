package store

import "errors"

var (
	// ErrRoomExists: create-room against a taken code. Collisions are
	// rejected, never treated as an implicit join.
	ErrRoomExists = errors.New("room already exists")

	ErrRoomNotFound = errors.New("room not found")

	// ErrNameTaken: the display name is bound to a different connection
	// in that room.
	ErrNameTaken = errors.New("username already taken in this room")
)
