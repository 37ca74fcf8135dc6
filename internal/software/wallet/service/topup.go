package service

import (
	"context"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/general/logger"
)

const topUpDescription = "Wallet top-up"

// TopUp credits the user's wallet and records the matching ledger entry in
// the same transaction.
func (service *walletService) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*wallet.Wallet, error) {
	var out *wallet.Wallet

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := service.ensureWallet(ctx, userID); err != nil {
			return err
		}

		w, err := service.walletRepo.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		entry, err := w.Credit(amount, topUpDescription)
		if err != nil {
			return err
		}

		if err := service.walletRepo.UpdateBalance(ctx, w); err != nil {
			return err
		}
		if err := service.walletRepo.AppendTransaction(ctx, entry); err != nil {
			return err
		}

		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("wallet topped up",
		logger.String("user_id", userID),
		logger.String("amount", amount.String()),
		logger.String("balance", out.Balance.String()),
	)

	return out, nil
}
