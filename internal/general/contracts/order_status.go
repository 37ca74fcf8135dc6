package contracts

import "time"

// OrderStatusMessage is published by the dispatch service on every order
// lifecycle change. Routing key: "order.status.{status}" on
// ExchangeOrderTopic.
type OrderStatusMessage struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	DriverID   string    `json:"driver_id,omitempty"`
	Status     string    `json:"status"` // PENDING|ACCEPTED|DRIVER_ARRIVED|IN_TRANSIT|COMPLETED|CANCELLED
	FinalPrice string    `json:"final_price,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Envelope
}
