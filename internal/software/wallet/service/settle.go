package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/general/logger"
)

var ErrNetExceedsGross = errors.New("net amount cannot exceed gross amount")

// Settle debits the sender the gross amount and credits the receiver the
// net amount; the difference is the platform's retained share and leaves
// the ledger through the debit row's description. Insufficient sender
// funds abort the whole settlement with no partial effect.
func (service *walletService) Settle(ctx context.Context, senderUserID, receiverUserID string, gross, net decimal.Decimal, description string) error {
	if senderUserID == receiverUserID {
		return ErrSelfTransfer
	}
	if !gross.IsPositive() || !net.IsPositive() {
		if net.IsPositive() {
			return &wallet.InvalidAmountError{Amount: gross}
		}
		return &wallet.InvalidAmountError{Amount: net}
	}
	if net.GreaterThan(gross) {
		return ErrNetExceedsGross
	}

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		sender, receiver, err := service.lockPair(ctx, senderUserID, receiverUserID)
		if err != nil {
			return err
		}

		debit, err := sender.Debit(gross, description)
		if err != nil {
			return err
		}
		credit, err := receiver.Credit(net, description)
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

	service.logger.Info("order settlement applied",
		logger.String("sender", senderUserID),
		logger.String("receiver", receiverUserID),
		logger.String("gross", gross.String()),
		logger.String("net", net.String()),
	)

	return nil
}
