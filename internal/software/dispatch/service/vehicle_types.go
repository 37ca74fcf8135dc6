package service

import (
	"context"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/general/logger"
)

// ListVehicleTypes returns every fare tier available for quoting.
func (service *dispatchService) ListVehicleTypes(ctx context.Context) ([]vehicle.VehicleType, error) {
	var out []vehicle.VehicleType
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = service.vehicleTypeRepo.List(ctx)
		return err
	})
	return out, err
}

// UpdateVehicleTypePricing changes a tier's fare parameters. Orders quoted
// before the change keep their original price.
func (service *dispatchService) UpdateVehicleTypePricing(ctx context.Context, id string, baseFare, pricePerKm decimal.Decimal) (*vehicle.VehicleType, error) {
	var out *vehicle.VehicleType

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		vt, err := service.vehicleTypeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := vt.UpdatePricing(baseFare, pricePerKm); err != nil {
			return err
		}
		if err := service.vehicleTypeRepo.UpdatePricing(ctx, vt.ID, vt.BaseFare, vt.PricePerKm); err != nil {
			return err
		}

		out = vt
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("vehicle type pricing updated",
		logger.String("vehicle_type_id", out.ID),
		logger.String("base_fare", out.BaseFare.String()),
		logger.String("price_per_km", out.PricePerKm.String()),
	)

	return out, nil
}
