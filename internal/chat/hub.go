package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/joinus-devs/backend-sub000/internal/store"
)

// persistQueueSize bounds the write queue between the event loop and the
// storage consumer. When the queue is full, writes are dropped with a warning
// rather than blocking message delivery.
const persistQueueSize = 256

type envelope struct {
	client *Client
	cmd    *Command
}

type membersQuery struct {
	room  int64
	reply chan membersReply
}

type membersReply struct {
	users []int64
	ok    bool
}

// Hub owns the room registry and processes all membership and broadcast
// events on a single loop, so the registry needs no locking. Rooms are
// created lazily on join and deleted the moment their member list empties.
//
// The registry is process-local in-memory state with process lifetime:
// multiple server processes do not share room membership.
type Hub struct {
	rooms map[int64]*Room

	register   chan *Client
	unregister chan *Client
	inbox      chan envelope
	queries    chan membersQuery
	persist    chan store.ChatMessage

	messages store.MessageStore
	log      *zerolog.Logger
}

// NewHub creates a hub. messages may be nil when history persistence is not
// wired (tests); logger may be nil.
func NewHub(messages store.MessageStore, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		rooms:      make(map[int64]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope),
		queries:    make(chan membersQuery),
		persist:    make(chan store.ChatMessage, persistQueueSize),
		messages:   messages,
		log:        logger,
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient reports a closed connection. If the connection holds a
// room association, the hub synthesizes a leave before discarding the handle.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// RoomMembers returns the member user ids of a room in join order, and
// whether the room exists. The lookup runs on the event loop, so it is safe
// against concurrent mutation. The hub must be running.
func (h *Hub) RoomMembers(roomID int64) ([]int64, bool) {
	q := membersQuery{room: roomID, reply: make(chan membersReply, 1)}
	h.queries <- q
	r := <-q.reply
	return r.users, r.ok
}

// Run processes events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	go h.persistLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.handleClose(c)
		case env := <-h.inbox:
			h.dispatch(env.client, env.cmd)
		case q := <-h.queries:
			if room, ok := h.rooms[q.room]; ok {
				q.reply <- membersReply{users: room.userIDs(), ok: true}
			} else {
				q.reply <- membersReply{}
			}
		}
	}
}

// pump forwards one client's commands into the shared inbox, preserving the
// single inbound event stream.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandLeave:
		h.handleLeave(c, cmd)
	case CommandBroadcast:
		h.handleBroadcast(c, cmd)
	default:
		h.sendError(c, ErrInvalidMethod())
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if c.room != 0 {
		// One room association per connection; joins are never migrated.
		h.sendError(c, errAlreadyInRoom(c.room))
		return
	}

	room, ok := h.rooms[cmd.Room]
	if !ok {
		room = newRoom(cmd.Room)
		h.rooms[cmd.Room] = room
	}

	if room.has(cmd.User) {
		h.sendError(c, errAlreadyInRoom(cmd.Room))
		return
	}

	room.add(cmd.User, c)
	c.room = cmd.Room
	c.user = cmd.User

	room.broadcast(&Event{
		Kind:      EventJoined,
		Room:      cmd.Room,
		User:      cmd.User,
		Users:     room.userIDs(),
		Message:   cmd.Body,
		Timestamp: time.Now(),
	})
}

func (h *Hub) handleLeave(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.sendError(c, errRoomNotFound(cmd.Room))
		return
	}

	if !room.holds(cmd.User, c) {
		h.sendError(c, errNotInRoom(cmd.Room))
		return
	}

	room.remove(cmd.User)
	c.room = 0
	c.user = 0

	room.broadcast(&Event{
		Kind:      EventLeft,
		Room:      cmd.Room,
		User:      cmd.User,
		Users:     room.userIDs(),
		Message:   cmd.Body,
		Timestamp: time.Now(),
	})

	if room.empty() {
		delete(h.rooms, cmd.Room)
	}
}

func (h *Hub) handleBroadcast(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.sendError(c, errRoomNotFound(cmd.Room))
		return
	}

	if !room.holds(cmd.User, c) {
		h.sendError(c, errNotAMember())
		return
	}

	room.broadcast(&Event{
		Kind:      EventBroadcast,
		Room:      cmd.Room,
		User:      cmd.User,
		Users:     room.userIDs(),
		Message:   cmd.Body,
		Timestamp: time.Now(),
	})

	h.enqueuePersist(store.ChatMessage{
		UserID:  cmd.User,
		ClubID:  cmd.Room,
		Message: cmd.Body,
	})
}

// handleClose synthesizes a leave for a closed connection, then discards it.
func (h *Hub) handleClose(c *Client) {
	c.Close()

	if c.room != 0 {
		if room, ok := h.rooms[c.room]; ok && room.holds(c.user, c) {
			room.remove(c.user)
			room.broadcast(&Event{
				Kind:      EventLeft,
				Room:      c.room,
				User:      c.user,
				Users:     room.userIDs(),
				Timestamp: time.Now(),
			})
			if room.empty() {
				delete(h.rooms, c.room)
			}
		}
		c.room = 0
		c.user = 0
	}

	close(c.Events)
}

func (h *Hub) sendError(c *Client, err *Error) {
	c.send(&Event{
		Kind:      EventError,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// enqueuePersist hands an accepted broadcast to the storage consumer.
// Delivery already happened; a full queue drops the write.
func (h *Hub) enqueuePersist(msg store.ChatMessage) {
	if h.messages == nil {
		return
	}
	select {
	case h.persist <- msg:
	default:
		h.log.Warn().
			Int64("club_id", msg.ClubID).
			Int64("user_id", msg.UserID).
			Msg("persist queue full, dropping chat message")
	}
}

// persistLoop writes accepted broadcasts to history. Storage latency and
// failures never reach the event loop or any client.
func (h *Hub) persistLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.persist:
			if err := h.messages.SaveMessage(ctx, &msg); err != nil {
				h.log.Error().Err(err).
					Int64("club_id", msg.ClubID).
					Int64("user_id", msg.UserID).
					Msg("save chat message")
			}
		}
	}
}
