package models

import "time"

// FriendshipStatus is the state of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship is the single edge between two users. User1ID < User2ID always holds.
type Friendship struct {
	ID          int              `db:"id" json:"id"`
	User1ID     int              `db:"user1_id" json:"-"`
	User2ID     int              `db:"user2_id" json:"-"`
	RequesterID int              `db:"requester_id" json:"requester_id"`
	AddresseeID int              `db:"addressee_id" json:"addressee_id"`
	Status      FriendshipStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// Other returns the party of the edge that is not userID.
func (f Friendship) Other(userID int) int {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Involves reports whether userID is one of the two parties.
func (f Friendship) Involves(userID int) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// Friend is an edge as seen from one side.
type Friend struct {
	FriendshipID int              `db:"friendship_id" json:"friendship_id"`
	Status       FriendshipStatus `db:"status" json:"status"`
	RequesterID  int              `db:"requester_id" json:"requester_id"`
	UserCard
	Since time.Time `db:"updated_at" json:"since"`
}

// IsFriend reports whether the edge is accepted.
func (f Friend) IsFriend() bool {
	return f.Status == FriendshipAccepted
}
