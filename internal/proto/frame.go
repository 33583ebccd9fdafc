// Package proto defines the JSON frames exchanged over the chat WebSocket.
package proto

// Methods accepted on inbound frames and echoed on success frames.
const (
	MethodJoin      = "join"
	MethodLeave     = "leave"
	MethodBroadcast = "broadcast"
)

// Statuses carried by outbound frames.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Frame is the inbound message shape. Room is a club id, User a user id.
type Frame struct {
	Method string `json:"method"`
	Body   string `json:"body"`
	Room   int64  `json:"room"`
	User   int64  `json:"user"`
}

// Body carries the message payload of an outbound frame. Timestamp is in
// milliseconds since the Unix epoch.
type Body struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Success is the outbound shape for accepted operations. Users lists the
// room's member user ids after the operation, in join order.
type Success struct {
	Status string  `json:"status"`
	Method string  `json:"method"`
	Body   Body    `json:"body"`
	User   int64   `json:"user"`
	Users  []int64 `json:"users"`
}

// Error is the outbound shape for rejected operations. Method serializes as
// null.
type Error struct {
	Status string  `json:"status"`
	Method *string `json:"method"`
	Body   Body    `json:"body"`
}

// NewSuccess builds a success frame for the given method and payload.
func NewSuccess(method, message string, timestamp int64, user int64, users []int64) Success {
	return Success{
		Status: StatusSuccess,
		Method: method,
		Body:   Body{Message: message, Timestamp: timestamp},
		User:   user,
		Users:  users,
	}
}

// NewError builds an error frame carrying the rejection message.
func NewError(message string, timestamp int64) Error {
	return Error{
		Status: StatusError,
		Body:   Body{Message: message, Timestamp: timestamp},
	}
}
