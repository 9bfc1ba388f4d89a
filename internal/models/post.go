package models

import (
	"fmt"
	"time"
)

// PostStatus is the visibility scope of a post.
type PostStatus string

const (
	PostPublic  PostStatus = "public"
	PostPrivate PostStatus = "private"
	PostFriends PostStatus = "friends"
)

var postIcons = map[PostStatus]string{
	PostPublic:  "fa fa-globe",
	PostPrivate: "fa fa-key",
	PostFriends: "fa fa-group",
}

// ParsePostStatus validates s.
func ParsePostStatus(s string) (PostStatus, error) {
	status := PostStatus(s)
	if _, ok := postIcons[status]; !ok {
		return "", fmt.Errorf("unknown post status %q", s)
	}
	return status, nil
}

// Icon derives the display icon for the status.
func (s PostStatus) Icon() string {
	return postIcons[s]
}

// Post is a user-authored entry in the feed.
type Post struct {
	ID            int        `db:"id" json:"id"`
	OwnerID       int        `db:"owner_id" json:"owner_id"`
	Title         string     `db:"title" json:"title"`
	Body          string     `db:"body" json:"body"`
	Status        PostStatus `db:"status" json:"status"`
	Icon          string     `db:"icon" json:"icon"`
	AllowComments bool       `db:"allow_comments" json:"allow_comments"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// PostInput carries the writable post fields.
type PostInput struct {
	Title         string `form:"title" json:"title" binding:"required"`
	Body          string `form:"body" json:"body" binding:"required"`
	Status        string `form:"status" json:"status" binding:"required"`
	AllowComments bool   `form:"allowComments" json:"allow_comments"`
}

// Like records one user liking a post.
type Like struct {
	PostID    int       `db:"post_id" json:"post_id"`
	User      UserCard  `db:"user" json:"user"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        int       `db:"id" json:"id"`
	PostID    int       `db:"post_id" json:"post_id"`
	User      UserCard  `db:"user" json:"user"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostView is a post with its owner, likes and comments expanded.
type PostView struct {
	Post
	Owner    UserCard  `json:"owner"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
}

// FeedItem is a post listed in a feed with its owner and activity counts.
type FeedItem struct {
	Post
	Owner        UserCard `db:"owner" json:"owner"`
	LikeCount    int      `db:"like_count" json:"like_count"`
	CommentCount int      `db:"comment_count" json:"comment_count"`
}

// VisibleTo reports whether viewerID may see the post. isFriend tells whether the viewer
// is an accepted friend of the owner.
func (p Post) VisibleTo(viewerID int, isFriend bool) bool {
	switch p.Status {
	case PostPublic:
		return true
	case PostFriends:
		return viewerID == p.OwnerID || isFriend
	default:
		return viewerID == p.OwnerID
	}
}
