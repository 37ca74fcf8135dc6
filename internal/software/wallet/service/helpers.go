package service

import (
	"context"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/wallet"
)

// ensureWallet returns the user's wallet, creating a zero-balance one on
// first access. The insert is a no-op when a racing creator got there
// first; the reread picks up the winning row.
func (service *walletService) ensureWallet(ctx context.Context, userID string) (*wallet.Wallet, error) {
	w, err := service.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !fault.IsNotFound(err) {
		return nil, err
	}

	fresh, err := wallet.NewWallet(userID)
	if err != nil {
		return nil, err
	}
	if err := service.walletRepo.CreateIfAbsent(ctx, fresh); err != nil {
		return nil, err
	}

	return service.walletRepo.GetByUserID(ctx, userID)
}

// lockPair locks two wallets in ascending wallet-ID order so concurrent
// transfers over the same pair cannot deadlock.
func (service *walletService) lockPair(ctx context.Context, aUserID, bUserID string) (*wallet.Wallet, *wallet.Wallet, error) {
	a, err := service.ensureWallet(ctx, aUserID)
	if err != nil {
		return nil, nil, err
	}
	b, err := service.ensureWallet(ctx, bUserID)
	if err != nil {
		return nil, nil, err
	}

	firstUser, secondUser := aUserID, bUserID
	if b.ID < a.ID {
		firstUser, secondUser = bUserID, aUserID
	}

	first, err := service.walletRepo.GetByUserIDForUpdate(ctx, firstUser)
	if err != nil {
		return nil, nil, err
	}
	second, err := service.walletRepo.GetByUserIDForUpdate(ctx, secondUser)
	if err != nil {
		return nil, nil, err
	}

	if first.UserID == aUserID {
		return first, second, nil
	}
	return second, first, nil
}
