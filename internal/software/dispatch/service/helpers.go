package service

import (
	"context"
	"encoding/json"
	"time"

	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/general/contracts"
	"delivery-dispatch/internal/general/logger"
)

// publishOrderStatus emits an order status event. Publishing is
// best-effort: a broker failure is logged and never fails the operation
// that caused the status change.
func (service *dispatchService) publishOrderStatus(o *order.Order) {
	if service.pub == nil {
		return
	}

	msg := contracts.OrderStatusMessage{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status.String(),
		Timestamp:  time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: "dispatch-service",
			SentAt:   time.Now().UTC(),
		},
	}
	if o.DriverID != nil {
		msg.DriverID = *o.DriverID
	}
	if o.FinalPrice != nil {
		msg.FinalPrice = o.FinalPrice.StringFixed(2)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		service.logger.Error("order status encode failed",
			logger.String("order_id", o.ID), logger.Err(err))
		return
	}

	routingKey := contracts.RouteOrderStatusPrefix + o.Status.String()
	if err := service.pub.Publish(contracts.ExchangeOrderTopic, routingKey, body); err != nil {
		service.logger.Error("order status publish failed",
			logger.String("order_id", o.ID),
			logger.String("routing_key", routingKey),
			logger.Err(err),
		)
	}
}

// notifyCompletion emails the customer that the trip finished and their
// wallet was debited. Best-effort only.
func (service *dispatchService) notifyCompletion(ctx context.Context, email string, o *order.Order) {
	if email == "" {
		return
	}

	subject := "Trip Completed"
	body := "Your trip is finished. Total price: " + o.Price.StringFixed(2) + ". Amount debited from your wallet."
	if err := service.notifier.SendEmail(ctx, email, subject, body); err != nil {
		service.logger.Warn("completion email failed",
			logger.String("order_id", o.ID), logger.Err(err))
	}
}
