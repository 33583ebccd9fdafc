package chat

// member is a (user id, connection) pair currently bound to a room.
type member struct {
	userID int64
	client *Client
}

// Room groups the members of one club's chat. Members keep join order so
// fan-out and the users list follow the join sequence. A room exists only
// while it has members.
type Room struct {
	ID      int64
	members []member
}

func newRoom(id int64) *Room {
	return &Room{ID: id}
}

// add appends a member. Uniqueness per user id is the caller's check.
func (r *Room) add(userID int64, c *Client) {
	r.members = append(r.members, member{userID: userID, client: c})
}

// remove deletes the member entry for userID. Returns true if removed.
func (r *Room) remove(userID int64) bool {
	for i, m := range r.members {
		if m.userID == userID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// has reports whether userID appears among the members.
func (r *Room) has(userID int64) bool {
	for _, m := range r.members {
		if m.userID == userID {
			return true
		}
	}
	return false
}

// holds reports whether userID is a member through this exact connection.
// Membership is bound to whichever handle most recently joined.
func (r *Room) holds(userID int64, c *Client) bool {
	for _, m := range r.members {
		if m.userID == userID {
			return m.client == c
		}
	}
	return false
}

// userIDs returns the member user ids in join order.
func (r *Room) userIDs() []int64 {
	ids := make([]int64, 0, len(r.members))
	for _, m := range r.members {
		ids = append(ids, m.userID)
	}
	return ids
}

// empty returns true if no members remain.
func (r *Room) empty() bool {
	return len(r.members) == 0
}

// broadcast sends an event to every open member connection in join order.
func (r *Room) broadcast(ev *Event) {
	for _, m := range r.members {
		m.client.send(ev)
	}
}
