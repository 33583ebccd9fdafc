package http

import (
	"github.com/joinus-devs/backend-sub000/internal/chat"
	"github.com/joinus-devs/backend-sub000/internal/proto"
)

// frameToCommand validates an inbound frame and maps it to a core command.
// A non-nil chat.Error means the frame is rejected locally with an error
// frame and no state change.
func frameToCommand(f proto.Frame) (*chat.Command, *chat.Error) {
	if f.Room == 0 || f.User == 0 {
		return nil, chat.ErrInvalidRequest()
	}

	var kind chat.CommandKind
	switch f.Method {
	case proto.MethodJoin:
		kind = chat.CommandJoin
	case proto.MethodLeave:
		kind = chat.CommandLeave
	case proto.MethodBroadcast:
		kind = chat.CommandBroadcast
	default:
		return nil, chat.ErrInvalidMethod()
	}

	return &chat.Command{
		Kind: kind,
		Room: f.Room,
		User: f.User,
		Body: f.Body,
	}, nil
}

func methodName(kind chat.EventKind) string {
	switch kind {
	case chat.EventJoined:
		return proto.MethodJoin
	case chat.EventLeft:
		return proto.MethodLeave
	default:
		return proto.MethodBroadcast
	}
}

// frameFromEvent maps a core event to one of the two outbound frame shapes.
func frameFromEvent(ev *chat.Event) any {
	ts := ev.Timestamp.UnixMilli()

	if ev.Kind == chat.EventError {
		msg := "unknown error"
		if ev.Err != nil {
			msg = ev.Err.Message
		}
		return proto.NewError(msg, ts)
	}

	return proto.NewSuccess(methodName(ev.Kind), ev.Message, ts, ev.User, ev.Users)
}
