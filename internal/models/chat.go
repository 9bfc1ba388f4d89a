package models

import "time"

// Chat is the single conversation between two users. User1ID < User2ID always holds;
// InitiatorID records who opened it first.
type Chat struct {
	ID             int       `db:"id" json:"id"`
	User1ID        int       `db:"user1_id" json:"user1_id"`
	User2ID        int       `db:"user2_id" json:"user2_id"`
	InitiatorID    int       `db:"initiator_id" json:"initiator_id"`
	User1Read      bool      `db:"user1_read" json:"user1_read"`
	User2Read      bool      `db:"user2_read" json:"user2_read"`
	LastActivityAt time.Time `db:"last_activity_at" json:"last_activity_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CanonicalPair orders two user ids so the lower id comes first.
func CanonicalPair(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// ReadFlagsFor returns (user1Read, user2Read) after actorID acts on the pair:
// the actor has read everything, the other party has not.
func ReadFlagsFor(actorID, user1ID, user2ID int) (bool, bool) {
	return actorID == user1ID, actorID == user2ID
}

// IsParticipant reports whether userID is one of the two parties.
func (c Chat) IsParticipant(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParty returns the id of the participant that is not userID.
func (c Chat) OtherParty(userID int) int {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// SenderID is the party who initiated the conversation.
func (c Chat) SenderID() int {
	return c.InitiatorID
}

// ReceiverID is the party who did not initiate the conversation.
func (c Chat) ReceiverID() int {
	return c.OtherParty(c.InitiatorID)
}

// SenderRead reports the initiator's read flag.
func (c Chat) SenderRead() bool {
	return c.ReadBy(c.InitiatorID)
}

// ReceiverRead reports the non-initiator's read flag.
func (c Chat) ReceiverRead() bool {
	return c.ReadBy(c.ReceiverID())
}

// ReadBy reports userID's read flag.
func (c Chat) ReadBy(userID int) bool {
	if c.User1ID == userID {
		return c.User1Read
	}
	return c.User2Read
}

// Message is one entry in a chat.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chat_id"`
	AuthorID  int       `db:"author_id" json:"author_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Thread is a chat with both users resolved and its ordered entries.
type Thread struct {
	Chat     Chat      `json:"chat"`
	Sender   UserCard  `json:"sender"`
	Receiver UserCard  `json:"receiver"`
	Messages []Message `json:"messages"`
}

// ChatSummary is the per-user listing view of a chat.
type ChatSummary struct {
	ChatID         int       `db:"id" json:"chat_id"`
	OtherUserID    int       `db:"other_id" json:"other_user_id"`
	OtherFullname  string    `db:"other_fullname" json:"other_fullname"`
	OtherImage     string    `db:"other_image" json:"other_image"`
	OtherOnline    bool      `db:"other_online" json:"other_online"`
	Read           bool      `db:"read" json:"read"`
	LastActivityAt time.Time `db:"last_activity_at" json:"last_activity_at"`
}

// ChatEvent is broadcast through websockets.
type ChatEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
