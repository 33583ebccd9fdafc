package chat

import "fmt"

// Error codes for domain errors.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidMethod = "invalid_method"
	ErrCodeRoomNotFound  = "room_not_found"
	ErrCodeAlreadyInRoom = "already_in_room"
	ErrCodeNotInRoom     = "not_in_room"
	ErrCodeNotAMember    = "not_a_member"
)

// Error wraps a code and the human-readable message sent back on the wire.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrInvalidRequest rejects frames with a missing room or user.
func ErrInvalidRequest() *Error {
	return &Error{Code: ErrCodeBadRequest, Message: "Invalid request"}
}

// ErrInvalidMethod rejects frames with an unrecognized method.
func ErrInvalidMethod() *Error {
	return &Error{Code: ErrCodeInvalidMethod, Message: "Invalid method"}
}

func errRoomNotFound(room int64) *Error {
	return &Error{Code: ErrCodeRoomNotFound, Message: fmt.Sprintf("Room %d does not exist", room)}
}

func errAlreadyInRoom(room int64) *Error {
	return &Error{Code: ErrCodeAlreadyInRoom, Message: fmt.Sprintf("You are already in room %d", room)}
}

func errNotInRoom(room int64) *Error {
	return &Error{Code: ErrCodeNotInRoom, Message: fmt.Sprintf("You are not in room %d", room)}
}

func errNotAMember() *Error {
	return &Error{Code: ErrCodeNotAMember, Message: "You are not a member of this room"}
}
