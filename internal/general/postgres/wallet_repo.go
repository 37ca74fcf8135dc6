package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/ports"
)

// WalletRepo persists wallets and their append-only transaction log.
type WalletRepo struct{}

// NewWalletRepo constructs a new WalletRepo.
func NewWalletRepo() ports.WalletRepository {
	return &WalletRepo{}
}

// GetByUserID returns the user's wallet.
func (repo *WalletRepo) GetByUserID(ctx context.Context, userID string) (*wallet.Wallet, error) {
	return repo.get(ctx, userID, false)
}

// GetByUserIDForUpdate returns the wallet with its row locked. Callers
// that lock more than one wallet do so in ascending wallet-ID order.
func (repo *WalletRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*wallet.Wallet, error) {
	return repo.get(ctx, userID, true)
}

func (repo *WalletRepo) get(ctx context.Context, userID string, forUpdate bool) (*wallet.Wallet, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, created_at, updated_at, user_id, balance
		FROM wallets
		WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var out wallet.Wallet
	err = tx.QueryRow(ctx, query, userID).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.UserID, &out.Balance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("wallet", userID)
		}
		return nil, err
	}

	return &out, nil
}

// CreateIfAbsent inserts the wallet unless the user already has one. The
// unique index on user_id makes the insert a no-op when racing creators
// collide; callers reread afterwards to pick up the winner's row.
func (repo *WalletRepo) CreateIfAbsent(ctx context.Context, w *wallet.Wallet) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (id, created_at, updated_at, user_id, balance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`, w.ID, w.CreatedAt, w.UpdatedAt, w.UserID, w.Balance)
	return err
}

// UpdateBalance persists the wallet balance.
func (repo *WalletRepo) UpdateBalance(ctx context.Context, w *wallet.Wallet) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE wallets
		SET balance = $1,
		    updated_at = $2
		WHERE id = $3
	`, w.Balance, w.UpdatedAt, w.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("wallet", w.ID)
	}
	return nil
}

// AppendTransaction writes one ledger entry. Entries are never updated or
// deleted afterwards.
func (repo *WalletRepo) AppendTransaction(ctx context.Context, entry *wallet.Transaction) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.WalletID, entry.Type.String(), entry.Amount, entry.Description, entry.CreatedAt)
	return err
}

// ListTransactions returns the wallet's ledger entries, newest first.
func (repo *WalletRepo) ListTransactions(ctx context.Context, walletID string, limit int) ([]wallet.Transaction, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, wallet_id, type, amount, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []wallet.Transaction
	for rows.Next() {
		var (
			entry    wallet.Transaction
			typeText string
		)
		if err := rows.Scan(
			&entry.ID, &entry.WalletID, &typeText, &entry.Amount, &entry.Description, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Type = wallet.TransactionType(typeText)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
