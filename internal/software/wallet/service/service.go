package service

import (
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
)

// walletService implements the double-entry ledger boundary.
type walletService struct {
	logger     *logger.Logger
	uow        ports.UnitOfWork
	walletRepo ports.WalletRepository
}

// NewWalletService creates a new WalletService with the provided dependencies.
func NewWalletService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	walletRepo ports.WalletRepository,
) ports.WalletService {
	return &walletService{
		logger:     logger,
		uow:        uow,
		walletRepo: walletRepo,
	}
}
