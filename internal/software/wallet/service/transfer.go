package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/general/logger"
)

var ErrSelfTransfer = errors.New("sender and receiver must differ")

// Transfer atomically moves funds between two users: one debit on the
// sender, one credit on the receiver, both ledger entries in the same
// transaction. Insufficient funds leave both wallets untouched.
func (service *walletService) Transfer(ctx context.Context, senderUserID, receiverUserID string, amount decimal.Decimal, description string) error {
	if senderUserID == receiverUserID {
		return ErrSelfTransfer
	}

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		sender, receiver, err := service.lockPair(ctx, senderUserID, receiverUserID)
		if err != nil {
			return err
		}

		debit, err := sender.Debit(amount, description)
		if err != nil {
			return err
		}
		credit, err := receiver.Credit(amount, description)
		if err != nil {
			return err
		}

		if err := service.walletRepo.UpdateBalance(ctx, sender); err != nil {
			return err
		}
		if err := service.walletRepo.UpdateBalance(ctx, receiver); err != nil {
			return err
		}
		if err := service.walletRepo.AppendTransaction(ctx, debit); err != nil {
			return err
		}
		return service.walletRepo.AppendTransaction(ctx, credit)
	})
	if err != nil {
		return err
	}

	service.logger.Info("wallet transfer applied",
		logger.String("sender", senderUserID),
		logger.String("receiver", receiverUserID),
		logger.String("amount", amount.String()),
	)

	return nil
}
