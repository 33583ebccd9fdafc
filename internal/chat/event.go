package chat

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoined notifies room members that a user joined.
	EventJoined EventKind = iota
	// EventLeft notifies remaining room members that a user left.
	EventLeft
	// EventBroadcast notifies room members about a chat message.
	EventBroadcast
	// EventError notifies the requesting client about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// Users is the room's member user-id list after the operation, in join order.
type Event struct {
	Kind      EventKind
	Room      int64
	User      int64
	Users     []int64
	Message   string
	Timestamp time.Time
	Err       *Error
}
