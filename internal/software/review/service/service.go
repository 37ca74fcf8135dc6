package service

import (
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
)

// reviewService records per-order reviews and maintains the driver's
// running rating average.
type reviewService struct {
	logger     *logger.Logger
	uow        ports.UnitOfWork
	orderRepo  ports.OrderRepository
	driverRepo ports.DriverRepository
	reviewRepo ports.ReviewRepository
}

// NewReviewService creates a new ReviewService with the provided dependencies.
func NewReviewService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	orderRepo ports.OrderRepository,
	driverRepo ports.DriverRepository,
	reviewRepo ports.ReviewRepository,
) ports.ReviewService {
	return &reviewService{
		logger:     logger,
		uow:        uow,
		orderRepo:  orderRepo,
		driverRepo: driverRepo,
		reviewRepo: reviewRepo,
	}
}
