package service

import (
	"context"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/observability"
)

// AcceptOrder assigns the calling driver to a PENDING order. The row lock
// on the order makes the status check and the assignment one atomic unit:
// of two racing drivers exactly one wins, the other observes the ACCEPTED
// state. Accepting also takes the driver off the matching pool.
func (service *dispatchService) AcceptOrder(ctx context.Context, orderID, driverUserID string) (*order.Order, error) {
	var out *order.Order

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := service.driverRepo.GetByUserID(ctx, driverUserID)
		if err != nil {
			return err
		}
		if !d.Approved {
			return fault.Forbidden("driver is not approved")
		}
		if d.Blocked {
			return fault.Forbidden("driver is blocked")
		}

		o, err := service.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.Accept(d.ID); err != nil {
			return err
		}

		if err := service.orderRepo.Update(ctx, o); err != nil {
			return err
		}
		if err := service.driverRepo.SetAvailable(ctx, d.ID, false); err != nil {
			return err
		}

		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.OrdersAccepted.Inc()
	service.publishOrderStatus(out)

	service.logger.Info("order accepted",
		logger.String("order_id", out.ID),
		logger.String("driver_id", *out.DriverID),
	)

	return out, nil
}
