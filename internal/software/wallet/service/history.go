package service

import (
	"context"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/wallet"
)

// GetBalance returns the user's current balance, creating the wallet on
// first access.
func (service *walletService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		w, err := service.ensureWallet(ctx, userID)
		if err != nil {
			return err
		}
		balance = w.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// History returns the user's ledger entries, newest first.
func (service *walletService) History(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	var entries []wallet.Transaction

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		w, err := service.ensureWallet(ctx, userID)
		if err != nil {
			return err
		}
		entries, err = service.walletRepo.ListTransactions(ctx, w.ID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
