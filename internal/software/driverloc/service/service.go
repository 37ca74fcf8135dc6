package service

import (
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/rabbitmq"
	"delivery-dispatch/internal/ports"
)

// driverLocationService manages driver positions, availability and
// proximity queries.
type driverLocationService struct {
	logger     *logger.Logger
	uow        ports.UnitOfWork
	driverRepo ports.DriverRepository
	geoIndex   ports.GeoIndex        // nil when Redis is not configured
	pub        *rabbitmq.MQPublisher // nil when no broker is configured

	defaultRadiusKm float64
	nearbyLimit     int
}

// NewDriverLocationService creates a new DriverLocationService with the
// provided dependencies.
func NewDriverLocationService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	driverRepo ports.DriverRepository,
	geoIndex ports.GeoIndex,
	pub *rabbitmq.MQPublisher,
	defaultRadiusKm float64,
	nearbyLimit int,
) ports.DriverLocationService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 5.0
	}
	if nearbyLimit <= 0 {
		nearbyLimit = 20
	}
	return &driverLocationService{
		logger:          logger,
		uow:             uow,
		driverRepo:      driverRepo,
		geoIndex:        geoIndex,
		pub:             pub,
		defaultRadiusKm: defaultRadiusKm,
		nearbyLimit:     nearbyLimit,
	}
}
