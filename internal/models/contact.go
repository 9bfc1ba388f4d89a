package models

import "time"

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        int       `db:"id" json:"id"`
	Fullname  string    `db:"fullname" json:"fullname" form:"fullname" binding:"required"`
	Email     string    `db:"email" json:"email" form:"email" binding:"required,email"`
	Message   string    `db:"message" json:"message" form:"message" binding:"required"`
	CreatedAt time.Time `db:"created_at" json:"date"`
}
