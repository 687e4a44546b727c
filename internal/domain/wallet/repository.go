package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureWallet(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (r *Repository) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := r.EnsureWallet(ctx, userID); err != nil {
		return 0, err
	}

	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM user_wallets WHERE user_id = $1`, userID)
	return balance, err
}

func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error) {
	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, amount, type, reference_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return txs, err
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// lockWallet takes the per-user row lock all balance mutations serialize on.
func (r *Repository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return 0, err
	}

	var balance int64
	err := tx.GetContext(ctx, &balance, `SELECT balance FROM user_wallets WHERE user_id = $1 FOR UPDATE`, userID)
	return balance, err
}

func (r *Repository) getTransactionAmountByRef(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, txType TransactionType, referenceID string) (int64, bool, error) {
	if referenceID == "" {
		return 0, false, nil
	}

	var amount int64
	err := tx.GetContext(ctx, &amount, `
		SELECT amount
		FROM wallet_transactions
		WHERE user_id = $1 AND type = $2 AND reference_id = $3
		LIMIT 1
	`, userID, string(txType), referenceID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

func (r *Repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, txType TransactionType, referenceID string) error {
	var ref interface{}
	if referenceID != "" {
		ref = referenceID
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, user_id, amount, type, reference_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), userID, amount, string(txType), ref)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

// applyTx mutates the balance inside the given transaction. The caller owns
// commit/rollback, which lets an order insert and its debit share one commit.
func (r *Repository) applyTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, txType TransactionType, referenceID string) error {
	balance, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return err
	}

	existingAmount, exists, err := r.getTransactionAmountByRef(ctx, tx, userID, txType, referenceID)
	if err != nil {
		return err
	}
	if exists {
		if existingAmount != amount {
			return ErrReferenceConflict
		}
		return nil
	}

	nextBalance := balance + amount
	if nextBalance < 0 {
		return ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_wallets SET balance = $1, updated_at = now() WHERE user_id = $2`,
		nextBalance, userID); err != nil {
		return err
	}

	return r.insertTransaction(ctx, tx, userID, amount, txType, referenceID)
}

func (r *Repository) apply(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.applyTx(ctx, tx, userID, amount, txType, referenceID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) TopUp(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string) error {
	return r.apply(ctx, userID, amount, txType, referenceID)
}

func (r *Repository) Spend(ctx context.Context, userID uuid.UUID, amount int64, referenceID string) error {
	return r.apply(ctx, userID, -amount, TransactionTypePurchase, referenceID)
}

// SpendTx debits within an external transaction so the debit commits or rolls
// back together with the order that caused it.
func (r *Repository) SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, referenceID string) error {
	return r.applyTx(ctx, tx, userID, -amount, TransactionTypePurchase, referenceID)
}

func (r *Repository) Refund(ctx context.Context, userID uuid.UUID, amount int64, referenceID string) error {
	return r.apply(ctx, userID, amount, TransactionTypeRefund, referenceID)
}
