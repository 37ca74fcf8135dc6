package websocket

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"delivery-dispatch/internal/general/contracts"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/rabbitmq"
)

// RunOrderStatusBridge consumes order status events and pushes them to the
// connected customer's socket. It blocks until ctx is done.
func RunOrderStatusBridge(ctx context.Context, client *rabbitmq.Client, hub *Hub, log *logger.Logger) error {
	return client.Consume(ctx, contracts.QueueOrderStatus, "ws-bridge", 10,
		func(ctx context.Context, d amqp.Delivery) error {
			var msg contracts.OrderStatusMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Warn("order status event has bad json", logger.Err(err))
				return err
			}

			event := map[string]any{
				"type":        "order_status",
				"order_id":    msg.OrderID,
				"status":      msg.Status,
				"final_price": msg.FinalPrice,
				"timestamp":   msg.Timestamp,
			}

			if err := hub.Send(msg.CustomerID, event); err != nil {
				log.Warn("push to customer failed",
					logger.String("customer_id", msg.CustomerID), logger.Err(err))
			}
			return nil
		})
}
