package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/domain/wallet"
)

// ----- DTOs for Dispatch Service -----

// CreateOrderInput is the validated input required to create an order.
type CreateOrderInput struct {
	CustomerID    string
	VehicleTypeID string
	PickupAddress string
	PickupLat     float64
	PickupLng     float64
	DropAddress   string
	DropLat       float64
	DropLng       float64
	DistanceKm    float64
	PaymentMethod string
}

// ----- Dispatch Service Interface -----

// DispatchService owns the order lifecycle: creation, customer
// cancellation, driver acceptance and forward status transitions
// including settlement on completion.
type DispatchService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, customerUserID string) (*order.Order, error)
	AcceptOrder(ctx context.Context, orderID, driverUserID string) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, driverUserID string, next order.Status) (*order.Order, error)
	PendingOrders(ctx context.Context, limit int) ([]order.Order, error)
	CustomerOrders(ctx context.Context, customerUserID string, limit int) ([]order.Order, error)
	ActiveDriverOrders(ctx context.Context, driverUserID string) ([]order.Order, error)
	ListVehicleTypes(ctx context.Context) ([]vehicle.VehicleType, error)
	UpdateVehicleTypePricing(ctx context.Context, id string, baseFare, pricePerKm decimal.Decimal) (*vehicle.VehicleType, error)
}

// ----- DTOs for Driver & Location Service -----

// UpdateLocationResult reports the stored position after an update.
type UpdateLocationResult struct {
	DriverID  string  `json:"driver_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyDriverResult is one matchable driver near a pickup point.
type NearbyDriverResult struct {
	DriverID    string  `json:"driver_id"`
	PlateNumber string  `json:"plate_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DistanceKm  float64 `json:"distance_km"`
	Rating      float64 `json:"rating"`
}

// ----- Driver & Location Service Interface -----

// DriverLocationService manages driver positions, availability and
// proximity queries.
type DriverLocationService interface {
	UpdateLocation(ctx context.Context, driverUserID string, lat, lng float64) (UpdateLocationResult, error)
	SetAvailability(ctx context.Context, driverUserID string, available bool) error
	FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyDriverResult, error)
}

// ----- Wallet Service Interface -----

// WalletService is the double-entry ledger boundary.
type WalletService interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*wallet.Wallet, error)
	Transfer(ctx context.Context, senderUserID, receiverUserID string, amount decimal.Decimal, description string) error
	// Settle debits the sender the gross amount and credits the receiver
	// the net amount in one transaction; the difference is the platform's
	// retained share. Both ledger rows commit together or not at all.
	Settle(ctx context.Context, senderUserID, receiverUserID string, gross, net decimal.Decimal, description string) error
	History(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error)
}

// ----- DTOs for Review Service -----

// SubmitReviewInput is the validated input for reviewing a completed order.
type SubmitReviewInput struct {
	OrderID        string
	CustomerUserID string
	Rating         int
	Comment        string
}

// ----- Review Service Interface -----

// ReviewService records per-order reviews and maintains the driver's
// running rating average.
type ReviewService interface {
	SubmitReview(ctx context.Context, in SubmitReviewInput) (*review.Review, error)
}
