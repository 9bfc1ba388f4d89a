package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/eadcode/OnlineDatingApp/internal/models"
)

// WalletRepository abstracts wallet balance and ledger persistence.
type WalletRepository interface {
	Balance(ctx context.Context, userID int) (int, error)
	Credit(ctx context.Context, userID int, units int, reference string) (int, error)
	Transactions(ctx context.Context, userID int) ([]models.WalletTransaction, error)
}

// WalletRepo is a sqlx implementation of WalletRepository.
type WalletRepo struct {
	db *sqlx.DB
}

// NewWalletRepo constructs a WalletRepo.
func NewWalletRepo(db *sqlx.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// Balance returns the user's current credit balance.
func (r *WalletRepo) Balance(ctx context.Context, userID int) (int, error) {
	var balance int
	err := r.db.GetContext(ctx, &balance, `SELECT wallet FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return balance, err
}

// Credit adds units to the wallet and records the ledger row atomically.
func (r *WalletRepo) Credit(ctx context.Context, userID int, units int, reference string) (balance int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = tx.GetContext(ctx, &balance, `UPDATE users SET wallet = wallet + $2 WHERE id=$1 RETURNING wallet`, userID, units); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrUserNotFound
		}
		return 0, err
	}
	if err = recordWalletTx(ctx, tx, userID, units, balance, models.WalletCredit, reference); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

// Transactions lists the ledger, newest first.
func (r *WalletRepo) Transactions(ctx context.Context, userID int) ([]models.WalletTransaction, error) {
	txs := []models.WalletTransaction{}
	err := r.db.SelectContext(ctx, &txs, `SELECT id, user_id, amount, balance_after, kind, reference, created_at
        FROM wallet_transactions WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	return txs, err
}

// debitWallet removes cost units when the balance covers it. It runs inside the caller's
// transaction so the debit commits or rolls back with the metered action.
func debitWallet(ctx context.Context, tx *sqlx.Tx, userID, cost int, kind models.WalletTxKind, reference string) (int, error) {
	var balance int
	err := tx.GetContext(ctx, &balance, `UPDATE users SET wallet = wallet - $2 WHERE id=$1 AND wallet >= $2 AND wallet > 0 RETURNING wallet`, userID, cost)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	if err := recordWalletTx(ctx, tx, userID, -cost, balance, kind, reference); err != nil {
		return 0, err
	}
	return balance, nil
}

func recordWalletTx(ctx context.Context, tx *sqlx.Tx, userID, amount, balanceAfter int, kind models.WalletTxKind, reference string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO wallet_transactions (user_id, amount, balance_after, kind, reference) VALUES ($1, $2, $3, $4, $5)`,
		userID, amount, balanceAfter, kind, reference)
	return err
}
