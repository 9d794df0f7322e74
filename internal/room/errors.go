package room

import "errors"

var (
	// ErrNotFound signals a missing room, state, or unresolvable room
	// reference. It is a clean "does not exist", never a store error.
	ErrNotFound = errors.New("not found")

	// ErrCodeInUse is returned when a custom room code is already
	// reserved by a live room.
	ErrCodeInUse = errors.New("room code already in use")

	// ErrInvalidCode is returned for codes outside 4-12 chars A-Z0-9.
	ErrInvalidCode = errors.New("invalid room code")

	// ErrCodeAllocation means the generated-code retry budget ran out.
	ErrCodeAllocation = errors.New("could not allocate a room code")
)
