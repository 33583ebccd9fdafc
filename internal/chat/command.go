package chat

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin binds the connection to a club room.
	CommandJoin CommandKind = iota
	// CommandLeave removes the connection from its club room.
	CommandLeave
	// CommandBroadcast delivers a chat message to room members.
	CommandBroadcast
)

// Command represents an action requested by a client. Room is a club id and
// User is the acting user id; both are validated at the transport boundary.
type Command struct {
	Kind CommandKind
	Room int64
	User int64
	Body string
}
