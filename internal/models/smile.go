package models

import "time"

// Smile is a low-commitment interest signal from one user to another.
type Smile struct {
	ID               int       `db:"id" json:"id"`
	SenderID         int       `db:"sender_id" json:"sender_id"`
	ReceiverID       int       `db:"receiver_id" json:"receiver_id"`
	SenderSent       bool      `db:"sender_sent" json:"sender_sent"`
	ReceiverReceived bool      `db:"receiver_received" json:"receiver_received"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ReceivedSmile is a smile with the sender resolved.
type ReceivedSmile struct {
	Smile
	Sender UserCard `db:"sender" json:"sender"`
}
