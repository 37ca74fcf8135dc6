package service

import (
	"context"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/observability"
)

// UpdateOrderStatus applies a forward transition requested by the assigned
// driver. Reaching COMPLETED settles the trip inside the same transaction:
// the customer's wallet is debited the quoted price, the driver's wallet
// is credited the price minus the platform commission, and both ledger
// rows land with the status flip. A failed settlement rolls the whole
// transaction back, leaving the order IN_TRANSIT.
func (service *dispatchService) UpdateOrderStatus(ctx context.Context, orderID, driverUserID string, next order.Status) (*order.Order, error) {
	var (
		out           *order.Order
		customerEmail string
	)

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := service.driverRepo.GetByUserID(ctx, driverUserID)
		if err != nil {
			return err
		}

		o, err := service.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.AssignedTo(d.ID) {
			return fault.Forbidden("only the assigned driver may update this order")
		}

		if err := o.Advance(next); err != nil {
			return err
		}

		if next == order.StatusCompleted {
			_, earning := o.Settlement()

			err := service.wallets.Settle(ctx, o.CustomerID, d.UserID, o.Price, earning,
				"Payment for order "+o.ID)
			if err != nil {
				return &order.PaymentError{OrderID: o.ID, Err: err}
			}

			// the driver is free for new work again
			if err := service.driverRepo.SetAvailable(ctx, d.ID, true); err != nil {
				return err
			}

			customer, err := service.userRepo.GetByID(ctx, o.CustomerID)
			if err == nil {
				customerEmail = customer.Email
			}
		}

		if err := service.orderRepo.Update(ctx, o); err != nil {
			return err
		}

		out = o
		return nil
	})
	if err != nil {
		if order.IsPaymentError(err) {
			observability.SettlementFailures.Inc()
			service.logger.Warn("settlement failed, completion rolled back",
				logger.String("order_id", orderID), logger.Err(err))
		}
		return nil, err
	}

	if next == order.StatusCompleted {
		observability.OrdersCompleted.Inc()
		service.notifyCompletion(ctx, customerEmail, out)
	}
	service.publishOrderStatus(out)

	service.logger.Info("order status updated",
		logger.String("order_id", out.ID),
		logger.String("status", out.Status.String()),
	)

	return out, nil
}
