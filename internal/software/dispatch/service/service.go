package service

import (
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/rabbitmq"
	"delivery-dispatch/internal/ports"
)

// dispatchService owns the order lifecycle: creation, customer
// cancellation, driver acceptance and forward transitions including
// settlement on completion.
type dispatchService struct {
	logger          *logger.Logger
	uow             ports.UnitOfWork
	orderRepo       ports.OrderRepository
	driverRepo      ports.DriverRepository
	userRepo        ports.UserRepository
	vehicleTypeRepo ports.VehicleTypeRepository
	wallets         ports.WalletService
	notifier        ports.Notifier
	pub             *rabbitmq.MQPublisher // nil when no broker is configured
}

// NewDispatchService creates a new DispatchService with the provided dependencies.
func NewDispatchService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	orderRepo ports.OrderRepository,
	driverRepo ports.DriverRepository,
	userRepo ports.UserRepository,
	vehicleTypeRepo ports.VehicleTypeRepository,
	wallets ports.WalletService,
	notifier ports.Notifier,
	pub *rabbitmq.MQPublisher,
) ports.DispatchService {
	return &dispatchService{
		logger:          logger,
		uow:             uow,
		orderRepo:       orderRepo,
		driverRepo:      driverRepo,
		userRepo:        userRepo,
		vehicleTypeRepo: vehicleTypeRepo,
		wallets:         wallets,
		notifier:        notifier,
		pub:             pub,
	}
}
