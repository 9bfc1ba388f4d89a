package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eadcode/OnlineDatingApp/internal/models"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error)
}

// ContactRepo is a sqlx implementation of ContactRepository.
type ContactRepo struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Create appends a submission.
func (r *ContactRepo) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	var stored models.ContactMessage
	err := r.db.GetContext(ctx, &stored, `INSERT INTO contact_messages (fullname, email, message) VALUES ($1, $2, $3)
        RETURNING id, fullname, email, message, created_at`, msg.Fullname, msg.Email, msg.Message)
	return stored, err
}
