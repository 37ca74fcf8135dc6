package service

import (
	"context"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/observability"
	"delivery-dispatch/internal/ports"
)

// CreateOrder quotes the price from the vehicle type's fare model and
// persists a new PENDING order.
func (service *dispatchService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*order.Order, error) {
	var out *order.Order

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := service.userRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !customer.Role.IsCustomer() {
			return fault.Forbidden("only customers may place orders")
		}

		vt, err := service.vehicleTypeRepo.GetByID(ctx, in.VehicleTypeID)
		if err != nil {
			return err
		}

		pickup := order.Location{
			Address:    in.PickupAddress,
			Coordinate: geo.Coordinate{Latitude: in.PickupLat, Longitude: in.PickupLng},
		}
		drop := order.Location{
			Address:    in.DropAddress,
			Coordinate: geo.Coordinate{Latitude: in.DropLat, Longitude: in.DropLng},
		}

		// trips quoted without an explicit distance use the great-circle
		// distance between pickup and drop
		distance := in.DistanceKm
		if distance <= 0 {
			distance = geo.HaversineKM(in.PickupLat, in.PickupLng, in.DropLat, in.DropLng)
		}

		o, err := order.NewOrder(customer.ID, vt, pickup, drop, distance, order.PaymentMethod(in.PaymentMethod))
		if err != nil {
			return err
		}

		if err := service.orderRepo.Create(ctx, o); err != nil {
			return err
		}

		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.OrdersCreated.Inc()
	service.publishOrderStatus(out)

	service.logger.Info("order created",
		logger.String("order_id", out.ID),
		logger.String("customer_id", out.CustomerID),
		logger.String("price", out.Price.StringFixed(2)),
		logger.Float64("distance_km", out.DistanceKm),
	)

	return out, nil
}
