package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/eadcode/OnlineDatingApp/internal/models"
)

const friendshipColumns = `id, user1_id, user2_id, requester_id, addressee_id, status, created_at, updated_at`

// FriendRepository abstracts the social graph.
type FriendRepository interface {
	SendRequest(ctx context.Context, requesterID int, addresseeID int) (models.Friendship, error)
	Accept(ctx context.Context, friendshipID int, userID int) (models.Friendship, error)
	Reject(ctx context.Context, friendshipID int, userID int) error
	Remove(ctx context.Context, friendshipID int, userID int) error
	ListFriends(ctx context.Context, userID int) ([]models.Friend, error)
	ListPendingRequests(ctx context.Context, userID int) ([]models.Friend, error)
	AreFriends(ctx context.Context, userID int, otherID int) (bool, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// SendRequest records a pending edge from requester to addressee.
func (r *FriendRepo) SendRequest(ctx context.Context, requesterID int, addresseeID int) (models.Friendship, error) {
	if requesterID == addresseeID {
		return models.Friendship{}, ErrFriendWithSelf
	}
	user1, user2 := models.CanonicalPair(requesterID, addresseeID)

	var edge models.Friendship
	err := r.db.GetContext(ctx, &edge, `INSERT INTO friendships (user1_id, user2_id, requester_id, addressee_id, status)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING `+friendshipColumns, user1, user2, requesterID, addresseeID, models.FriendshipPending)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Friendship{}, ErrFriendshipExists
	case isForeignKeyViolation(err):
		return models.Friendship{}, ErrUserNotFound
	}
	return edge, err
}

// Accept turns a pending edge addressed to userID into a friendship. The edge is shared,
// so both parties observe the change from the same single write.
func (r *FriendRepo) Accept(ctx context.Context, friendshipID int, userID int) (models.Friendship, error) {
	var edge models.Friendship
	err := r.db.GetContext(ctx, &edge, `UPDATE friendships SET status=$3, updated_at=NOW()
        WHERE id=$1 AND addressee_id=$2 AND status=$4 RETURNING `+friendshipColumns,
		friendshipID, userID, models.FriendshipAccepted, models.FriendshipPending)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return edge, err
}

// Reject deletes a pending edge addressed to userID.
func (r *FriendRepo) Reject(ctx context.Context, friendshipID int, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id=$1 AND addressee_id=$2 AND status=$3`,
		friendshipID, userID, models.FriendshipPending)
	return requireAffected(res, err, ErrFriendshipNotFound)
}

// Remove deletes an accepted edge involving userID.
func (r *FriendRepo) Remove(ctx context.Context, friendshipID int, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id=$1 AND (requester_id=$2 OR addressee_id=$2) AND status=$3`,
		friendshipID, userID, models.FriendshipAccepted)
	return requireAffected(res, err, ErrFriendshipNotFound)
}

// ListFriends returns accepted edges involving userID as seen from userID's side.
func (r *FriendRepo) ListFriends(ctx context.Context, userID int) ([]models.Friend, error) {
	friends := []models.Friend{}
	err := r.db.SelectContext(ctx, &friends, `SELECT f.id AS friendship_id, f.status, f.requester_id, f.updated_at,
        u.id, u.fullname, u.image, u.online
        FROM friendships f
        JOIN users u ON u.id = CASE WHEN f.requester_id=$1 THEN f.addressee_id ELSE f.requester_id END
        WHERE (f.requester_id=$1 OR f.addressee_id=$1) AND f.status=$2
        ORDER BY u.fullname ASC`, userID, models.FriendshipAccepted)
	return friends, err
}

// ListPendingRequests returns pending edges addressed to userID.
func (r *FriendRepo) ListPendingRequests(ctx context.Context, userID int) ([]models.Friend, error) {
	pending := []models.Friend{}
	err := r.db.SelectContext(ctx, &pending, `SELECT f.id AS friendship_id, f.status, f.requester_id, f.updated_at,
        u.id, u.fullname, u.image, u.online
        FROM friendships f
        JOIN users u ON u.id = f.requester_id
        WHERE f.addressee_id=$1 AND f.status=$2
        ORDER BY f.created_at DESC`, userID, models.FriendshipPending)
	return pending, err
}

// AreFriends reports whether an accepted edge joins the two users.
func (r *FriendRepo) AreFriends(ctx context.Context, userID int, otherID int) (bool, error) {
	if userID == otherID {
		return false, nil
	}
	user1, user2 := models.CanonicalPair(userID, otherID)
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM friendships WHERE user1_id=$1 AND user2_id=$2 AND status=$3)`,
		user1, user2, models.FriendshipAccepted)
	return exists, err
}
