package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/eadcode/OnlineDatingApp/internal/models"
)

const smileColumns = `id, sender_id, receiver_id, sender_sent, receiver_received, created_at`

// SmileRepository abstracts smile persistence.
type SmileRepository interface {
	Send(ctx context.Context, senderID int, receiverID int) (models.Smile, error)
	Show(ctx context.Context, smileID int, receiverID int) (models.ReceivedSmile, error)
	Delete(ctx context.Context, smileID int, senderID int) error
	ListReceived(ctx context.Context, receiverID int) ([]models.ReceivedSmile, error)
}

// SmileRepo is a sqlx implementation of SmileRepository.
type SmileRepo struct {
	db *sqlx.DB
}

// NewSmileRepo constructs a SmileRepo.
func NewSmileRepo(db *sqlx.DB) *SmileRepo {
	return &SmileRepo{db: db}
}

// Send records a smile. Sending again to the same receiver returns the existing smile.
func (r *SmileRepo) Send(ctx context.Context, senderID int, receiverID int) (models.Smile, error) {
	if senderID == receiverID {
		return models.Smile{}, ErrSmileSelf
	}

	var smile models.Smile
	err := r.db.GetContext(ctx, &smile, `INSERT INTO smiles (sender_id, receiver_id, sender_sent, receiver_received)
        VALUES ($1, $2, TRUE, FALSE)
        ON CONFLICT (sender_id, receiver_id) DO UPDATE SET sender_sent = TRUE
        RETURNING `+smileColumns, senderID, receiverID)
	if isForeignKeyViolation(err) {
		return models.Smile{}, ErrUserNotFound
	}
	return smile, err
}

// Show marks a smile as received. Only the receiver may open it.
func (r *SmileRepo) Show(ctx context.Context, smileID int, receiverID int) (models.ReceivedSmile, error) {
	var smile models.ReceivedSmile
	err := r.db.GetContext(ctx, &smile, `WITH opened AS (
            UPDATE smiles SET receiver_received = TRUE WHERE id=$1 AND receiver_id=$2 RETURNING `+smileColumns+`
        )
        SELECT o.id, o.sender_id, o.receiver_id, o.sender_sent, o.receiver_received, o.created_at,
        u.id AS "sender.id", u.fullname AS "sender.fullname", u.image AS "sender.image", u.online AS "sender.online"
        FROM opened o JOIN users u ON u.id = o.sender_id`, smileID, receiverID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReceivedSmile{}, ErrSmileNotFound
	}
	return smile, err
}

// Delete retracts a smile. Only the sender may retract it.
func (r *SmileRepo) Delete(ctx context.Context, smileID int, senderID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM smiles WHERE id=$1 AND sender_id=$2`, smileID, senderID)
	return requireAffected(res, err, ErrSmileNotFound)
}

// ListReceived returns smiles sent to the user, newest first.
func (r *SmileRepo) ListReceived(ctx context.Context, receiverID int) ([]models.ReceivedSmile, error) {
	smiles := []models.ReceivedSmile{}
	err := r.db.SelectContext(ctx, &smiles, `SELECT s.id, s.sender_id, s.receiver_id, s.sender_sent, s.receiver_received, s.created_at,
        u.id AS "sender.id", u.fullname AS "sender.fullname", u.image AS "sender.image", u.online AS "sender.online"
        FROM smiles s JOIN users u ON u.id = s.sender_id
        WHERE s.receiver_id=$1 ORDER BY s.created_at DESC`, receiverID)
	return smiles, err
}
