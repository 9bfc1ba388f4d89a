package models

import "time"

// WalletTxKind classifies a ledger row.
type WalletTxKind string

const (
	WalletCredit       WalletTxKind = "charge"
	WalletMessageDebit WalletTxKind = "message"
)

// WalletTransaction records one balance change.
type WalletTransaction struct {
	ID           int          `db:"id" json:"id"`
	UserID       int          `db:"user_id" json:"user_id"`
	Amount       int          `db:"amount" json:"amount"`
	BalanceAfter int          `db:"balance_after" json:"balance_after"`
	Kind         WalletTxKind `db:"kind" json:"kind"`
	Reference    string       `db:"reference" json:"reference"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
