package service

import (
	"context"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/observability"
)

// CancelOrder lets the ordering customer abandon an order that no driver
// has accepted yet.
func (service *dispatchService) CancelOrder(ctx context.Context, orderID, customerUserID string) (*order.Order, error) {
	var out *order.Order

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		o, err := service.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if o.CustomerID != customerUserID {
			return fault.Forbidden("only the ordering customer may cancel")
		}
		if err := o.Cancel(); err != nil {
			return err
		}

		if err := service.orderRepo.Update(ctx, o); err != nil {
			return err
		}

		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.OrdersCancelled.Inc()
	service.publishOrderStatus(out)

	service.logger.Info("order cancelled",
		logger.String("order_id", out.ID),
		logger.String("customer_id", out.CustomerID),
	)

	return out, nil
}
