package service

import (
	"context"

	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/general/logger"
)

// SetAvailability flips the driver's availability flag. Going available
// requires an approved, unblocked driver.
func (service *driverLocationService) SetAvailability(ctx context.Context, driverUserID string, available bool) error {
	var (
		driverID string
		location *geo.Coordinate
	)

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := service.driverRepo.GetByUserID(ctx, driverUserID)
		if err != nil {
			return err
		}
		if err := d.SetAvailable(available); err != nil {
			return err
		}
		driverID = d.ID
		location = d.Location
		return service.driverRepo.SetAvailable(ctx, d.ID, available)
	})
	if err != nil {
		return err
	}

	// keep the advisory index in step with the shift: off removes the
	// driver, back on restores the last stored position
	if service.geoIndex != nil {
		switch {
		case !available:
			if err := service.geoIndex.Remove(ctx, driverID); err != nil {
				service.logger.Warn("geo index remove failed",
					logger.String("driver_id", driverID), logger.Err(err))
			}
		case location != nil:
			if err := service.geoIndex.Upsert(ctx, driverID, *location); err != nil {
				service.logger.Warn("geo index upsert failed",
					logger.String("driver_id", driverID), logger.Err(err))
			}
		}
	}

	service.logger.Info("driver availability changed",
		logger.String("driver_id", driverID), logger.Bool("available", available))

	return nil
}
