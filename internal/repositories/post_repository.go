package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/models"
)

const postColumns = `id, owner_id, title, body, status, icon, allow_comments, created_at, updated_at`

const feedSelect = `SELECT p.id, p.owner_id, p.title, p.body, p.status, p.icon, p.allow_comments, p.created_at, p.updated_at,
        u.id AS "owner.id", u.fullname AS "owner.fullname", u.image AS "owner.image", u.online AS "owner.online",
        (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
        (SELECT COUNT(*) FROM post_comments pc WHERE pc.post_id = p.id) AS comment_count
        FROM posts p JOIN users u ON u.id = p.owner_id`

// PostRepository abstracts the social feed.
type PostRepository interface {
	Create(ctx context.Context, ownerID int, in models.PostInput) (models.Post, error)
	Get(ctx context.Context, postID int) (models.PostView, error)
	ListPublic(ctx context.Context) ([]models.FeedItem, error)
	ListByOwner(ctx context.Context, ownerID int, statuses []models.PostStatus) ([]models.FeedItem, error)
	Update(ctx context.Context, postID int, ownerID int, in models.PostInput) (models.Post, error)
	Delete(ctx context.Context, postID int, ownerID int) error
	Like(ctx context.Context, postID int, userID int) error
	Unlike(ctx context.Context, postID int, userID int) error
	Comment(ctx context.Context, postID int, userID int, body string) (models.Comment, error)
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create stores a post owned by ownerID with its icon derived from the status.
func (r *PostRepo) Create(ctx context.Context, ownerID int, in models.PostInput) (models.Post, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return models.Post{}, err
	}

	var post models.Post
	err = r.db.GetContext(ctx, &post, `INSERT INTO posts (owner_id, title, body, status, icon, allow_comments)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+postColumns,
		ownerID, in.Title, in.Body, status, status.Icon(), in.AllowComments)
	return post, err
}

// Get loads a post with owner, likes and comments expanded.
func (r *PostRepo) Get(ctx context.Context, postID int) (models.PostView, error) {
	var view models.PostView
	if err := r.db.GetContext(ctx, &view.Post, `SELECT `+postColumns+` FROM posts WHERE id=$1`, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PostView{}, ErrPostNotFound
		}
		return models.PostView{}, err
	}

	if err := r.db.GetContext(ctx, &view.Owner, `SELECT id, fullname, image, online FROM users WHERE id=$1`, view.OwnerID); err != nil {
		return models.PostView{}, err
	}

	view.Likes = []models.Like{}
	if err := r.db.SelectContext(ctx, &view.Likes, `SELECT l.post_id, l.created_at,
        u.id AS "user.id", u.fullname AS "user.fullname", u.image AS "user.image", u.online AS "user.online"
        FROM post_likes l JOIN users u ON u.id = l.user_id
        WHERE l.post_id=$1 ORDER BY l.created_at ASC`, postID); err != nil {
		return models.PostView{}, err
	}

	view.Comments = []models.Comment{}
	if err := r.db.SelectContext(ctx, &view.Comments, `SELECT c.id, c.post_id, c.body, c.created_at,
        u.id AS "user.id", u.fullname AS "user.fullname", u.image AS "user.image", u.online AS "user.online"
        FROM post_comments c JOIN users u ON u.id = c.user_id
        WHERE c.post_id=$1 ORDER BY c.created_at ASC, c.id ASC`, postID); err != nil {
		return models.PostView{}, err
	}
	return view, nil
}

// ListPublic returns every public post, newest first.
func (r *PostRepo) ListPublic(ctx context.Context) ([]models.FeedItem, error) {
	items := []models.FeedItem{}
	err := r.db.SelectContext(ctx, &items, feedSelect+` WHERE p.status=$1 ORDER BY p.created_at DESC`, models.PostPublic)
	return items, err
}

// ListByOwner returns the owner's posts restricted to the given statuses, newest first.
func (r *PostRepo) ListByOwner(ctx context.Context, ownerID int, statuses []models.PostStatus) ([]models.FeedItem, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}
	items := []models.FeedItem{}
	err := r.db.SelectContext(ctx, &items, feedSelect+` WHERE p.owner_id=$1 AND p.status = ANY($2) ORDER BY p.created_at DESC`,
		ownerID, pq.Array(raw))
	return items, err
}

// Update rewrites a post. Only the owner may update it.
func (r *PostRepo) Update(ctx context.Context, postID int, ownerID int, in models.PostInput) (models.Post, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return models.Post{}, err
	}
	if err := r.checkOwner(ctx, postID, ownerID); err != nil {
		return models.Post{}, err
	}

	var post models.Post
	err = r.db.GetContext(ctx, &post, `UPDATE posts SET title=$3, body=$4, status=$5, icon=$6, allow_comments=$7, updated_at=NOW()
        WHERE id=$1 AND owner_id=$2 RETURNING `+postColumns,
		postID, ownerID, in.Title, in.Body, status, status.Icon(), in.AllowComments)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}

// Delete removes a post. Only the owner may delete it.
func (r *PostRepo) Delete(ctx context.Context, postID int, ownerID int) error {
	if err := r.checkOwner(ctx, postID, ownerID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1 AND owner_id=$2`, postID, ownerID)
	return requireAffected(res, err, ErrPostNotFound)
}

// Like records a like. Liking twice keeps a single like.
func (r *PostRepo) Like(ctx context.Context, postID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	if isForeignKeyViolation(err) {
		return ErrPostNotFound
	}
	return err
}

// Unlike removes the user's like if present.
func (r *PostRepo) Unlike(ctx context.Context, postID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`, postID, userID)
	return err
}

// Comment appends a comment when the post allows comments.
func (r *PostRepo) Comment(ctx context.Context, postID int, userID int, body string) (models.Comment, error) {
	var allow bool
	if err := r.db.GetContext(ctx, &allow, `SELECT allow_comments FROM posts WHERE id=$1`, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, ErrPostNotFound
		}
		return models.Comment{}, err
	}
	if !allow {
		return models.Comment{}, ErrCommentsDisabled
	}

	var comment models.Comment
	err := r.db.GetContext(ctx, &comment, `WITH inserted AS (
            INSERT INTO post_comments (post_id, user_id, body) VALUES ($1, $2, $3) RETURNING id, post_id, user_id, body, created_at
        )
        SELECT i.id, i.post_id, i.body, i.created_at,
        u.id AS "user.id", u.fullname AS "user.fullname", u.image AS "user.image", u.online AS "user.online"
        FROM inserted i JOIN users u ON u.id = i.user_id`, postID, userID, body)
	if isForeignKeyViolation(err) {
		return models.Comment{}, ErrPostNotFound
	}
	return comment, err
}

func (r *PostRepo) checkOwner(ctx context.Context, postID int, userID int) error {
	var ownerID int
	if err := r.db.GetContext(ctx, &ownerID, `SELECT owner_id FROM posts WHERE id=$1`, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrNotPostOwner
	}
	return nil
}

func parseStatus(raw string) (models.PostStatus, error) {
	status, err := models.ParsePostStatus(raw)
	if err != nil {
		return "", apperrors.Validation("invalid post status", map[string]string{"status": "must be one of public, private, friends"})
	}
	return status, nil
}
