package repositories

import (
	"errors"

	"github.com/lib/pq"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
)

var (
	ErrUserNotFound       = apperrors.NotFound("user not found")
	ErrDuplicateEmail     = apperrors.DuplicateEmail("email already exists")
	ErrChatNotFound       = apperrors.NotFound("chat not found")
	ErrInsufficientFunds  = apperrors.InsufficientFunds("insufficient wallet balance")
	ErrChatWithSelf       = apperrors.Validation("cannot chat with yourself", nil)
	ErrFriendshipNotFound = apperrors.NotFound("friend request not found")
	ErrFriendshipExists   = apperrors.Conflict("friendship already exists")
	ErrFriendWithSelf     = apperrors.Validation("cannot befriend yourself", nil)
	ErrPostNotFound       = apperrors.NotFound("post not found")
	ErrNotPostOwner       = apperrors.Unauthorized("only the owner may change this post")
	ErrCommentsDisabled   = apperrors.Unauthorized("comments are disabled for this post")
	ErrSmileNotFound      = apperrors.NotFound("smile not found")
	ErrSmileSelf          = apperrors.Validation("cannot smile at yourself", nil)
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}
