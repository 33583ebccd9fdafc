package chat

import "sync"

// Client is one transport-level connection as seen by the core layer.
// The room/user association is owned by the hub event loop and is set only
// through join, cleared only through leave or close.
type Client struct {
	ID string

	Commands chan *Command
	Events   chan *Event

	closed    chan struct{}
	closeOnce sync.Once

	// Guarded by the hub loop; zero means no association.
	room int64
	user int64
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		closed:   make(chan struct{}),
	}
}

// Close marks the connection as closed. Closed clients are silently skipped
// during fan-out; they never error an operation.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// Closed reports whether the connection has been closed.
func (c *Client) Closed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// send delivers an event without blocking. Closed clients and slow consumers
// are dropped.
func (c *Client) send(ev *Event) {
	if c.Closed() {
		return
	}
	select {
	case c.Events <- ev:
	default:
	}
}
