package service

import (
	"context"

	"delivery-dispatch/internal/domain/order"
)

// PendingOrders returns unassigned orders for drivers to pick from.
func (service *dispatchService) PendingOrders(ctx context.Context, limit int) ([]order.Order, error) {
	var out []order.Order
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = service.orderRepo.ListPending(ctx, limit)
		return err
	})
	return out, err
}

// CustomerOrders returns the calling customer's orders, newest first.
func (service *dispatchService) CustomerOrders(ctx context.Context, customerUserID string, limit int) ([]order.Order, error) {
	var out []order.Order
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = service.orderRepo.ListByCustomer(ctx, customerUserID, limit)
		return err
	})
	return out, err
}

// ActiveDriverOrders returns the calling driver's in-flight orders.
func (service *dispatchService) ActiveDriverOrders(ctx context.Context, driverUserID string) ([]order.Order, error) {
	var out []order.Order
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := service.driverRepo.GetByUserID(ctx, driverUserID)
		if err != nil {
			return err
		}
		out, err = service.orderRepo.ListActiveByDriver(ctx, d.ID)
		return err
	})
	return out, err
}
