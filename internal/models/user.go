package models

import "time"

// DefaultImage is assigned to accounts created without an avatar.
const DefaultImage = "/img/user.png"

// User is an account record.
type User struct {
	ID           int       `db:"id" json:"id"`
	FacebookID   *string   `db:"facebook_id" json:"-"`
	GoogleID     *string   `db:"google_id" json:"-"`
	Firstname    string    `db:"firstname" json:"firstname"`
	Lastname     string    `db:"lastname" json:"lastname"`
	Fullname     string    `db:"fullname" json:"fullname"`
	Image        string    `db:"image" json:"image"`
	Email        string    `db:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	City         string    `db:"city" json:"city"`
	Country      string    `db:"country" json:"country"`
	Age          int       `db:"age" json:"age"`
	Gender       string    `db:"gender" json:"gender"`
	About        string    `db:"about" json:"about"`
	Online       bool      `db:"online" json:"online"`
	Wallet       int       `db:"wallet" json:"wallet"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewUser carries the fields for account creation.
type NewUser struct {
	FacebookID   *string
	GoogleID     *string
	Firstname    string
	Lastname     string
	Fullname     string
	Image        string
	Email        string
	PasswordHash *string
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	Fullname string `form:"fullname" json:"fullname" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Gender   string `form:"gender" json:"gender"`
	About    string `form:"about" json:"about"`
	City     string `form:"city" json:"city"`
	Country  string `form:"country" json:"country"`
	Age      int    `form:"age" json:"age" binding:"gte=0,lte=130"`
	Image    string `form:"image" json:"image"`
}

// UserCard is the public subset of a user shown next to chats, smiles, posts and friends.
type UserCard struct {
	ID       int    `db:"id" json:"id"`
	Fullname string `db:"fullname" json:"fullname"`
	Image    string `db:"image" json:"image"`
	Online   bool   `db:"online" json:"online"`
}

// Card returns the public subset of u.
func (u User) Card() UserCard {
	return UserCard{ID: u.ID, Fullname: u.Fullname, Image: u.Image, Online: u.Online}
}
