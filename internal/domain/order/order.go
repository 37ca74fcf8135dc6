package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/vehicle"
)

// Location is an address plus its coordinate, as captured at order time.
type Location struct {
	Address    string
	Coordinate geo.Coordinate
}

// PaymentMethod selects how the customer pays; settlement always moves
// through the internal ledger.
type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "WALLET"
	PaymentCash   PaymentMethod = "CASH"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// ParsePaymentMethod normalizes (uppercases+trims) and validates a payment
// method string. Empty input defaults to WALLET.
func ParsePaymentMethod(in string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(in)))
	if method == "" {
		return PaymentWallet, nil
	}
	if method.Valid() {
		return method, nil
	}
	return "", ErrInvalidPaymentMethod
}

// Valid reports whether method is one of the allowed payment constants.
func (method PaymentMethod) Valid() bool {
	switch method {
	case PaymentWallet, PaymentCash:
		return true
	default:
		return false
	}
}

// Order is the central entity of the dispatch engine. The quoted price is
// computed once at creation and never changes; the driver reference is nil
// until ACCEPTED and fixed thereafter.
type Order struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Actors
	CustomerID string
	DriverID   *string // nil until accepted

	// Trip
	VehicleTypeID *string
	Pickup        Location
	Drop          Location
	DistanceKm    float64

	// Money
	Price         decimal.Decimal
	FinalPrice    *decimal.Decimal
	PaymentMethod PaymentMethod

	// Lifecycle
	Status      Status
	CompletedAt *time.Time
}

var (
	ErrCustomerRequired = errors.New("customer id is required")
	ErrDriverRequired   = errors.New("driver id is required")
	ErrNegativeDistance = errors.New("distance cannot be negative")
	ErrAlreadyAssigned  = errors.New("driver already assigned")
	ErrNoDriverAssigned = errors.New("no driver assigned")
)

// InvalidStateError reports an operation that is illegal in the order's
// current lifecycle state. It always carries the current status so the
// caller can react.
type InvalidStateError struct {
	OrderID   string
	Current   Status
	Attempted Status
}

func (e *InvalidStateError) Error() string {
	if e.Attempted != "" {
		return fmt.Sprintf("order %s: cannot transition %s -> %s", e.OrderID, e.Current, e.Attempted)
	}
	return fmt.Sprintf("order %s: operation not allowed in status %s", e.OrderID, e.Current)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// NewOrder creates an order in PENDING state with the price quoted from the
// vehicle type's fare model.
func NewOrder(customerID string, vt *vehicle.VehicleType, pickup, drop Location, distanceKm float64, method PaymentMethod) (*Order, error) {
	if customerID = strings.TrimSpace(customerID); customerID == "" {
		return nil, ErrCustomerRequired
	}
	if distanceKm < 0 {
		return nil, ErrNegativeDistance
	}
	if err := pickup.Coordinate.Validate(); err != nil {
		return nil, err
	}
	if err := drop.Coordinate.Validate(); err != nil {
		return nil, err
	}
	method, err := ParsePaymentMethod(string(method))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vtID := vt.ID
	return &Order{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		CustomerID:    customerID,
		VehicleTypeID: &vtID,
		Pickup:        pickup,
		Drop:          drop,
		DistanceKm:    distanceKm,
		Price:         vt.Quote(distanceKm),
		PaymentMethod: method,
		Status:        StatusPending,
	}, nil
}

// Accept assigns the driver and moves PENDING -> ACCEPTED. The repository
// applies the same check as a compare-and-swap so racing drivers cannot
// both win.
func (order *Order) Accept(driverID string) error {
	if driverID == "" {
		return ErrDriverRequired
	}
	if order.Status != StatusPending {
		return &InvalidStateError{OrderID: order.ID, Current: order.Status, Attempted: StatusAccepted}
	}
	if order.DriverID != nil && *order.DriverID != "" {
		return ErrAlreadyAssigned
	}

	order.DriverID = &driverID
	order.setStatus(StatusAccepted)
	return nil
}

// Cancel moves PENDING -> CANCELLED. Only the customer may cancel, and only
// before a driver has accepted.
func (order *Order) Cancel() error {
	if order.Status != StatusPending {
		return &InvalidStateError{OrderID: order.ID, Current: order.Status, Attempted: StatusCancelled}
	}
	order.setStatus(StatusCancelled)
	return nil
}

// Advance applies a forward transition requested by the assigned driver.
// COMPLETED additionally stamps the completion time and fixes the final
// price at the quoted price.
func (order *Order) Advance(next Status) error {
	if order.DriverID == nil || *order.DriverID == "" {
		return ErrNoDriverAssigned
	}
	if next == StatusCancelled {
		// not reachable by drivers once accepted
		return &InvalidStateError{OrderID: order.ID, Current: order.Status, Attempted: next}
	}
	if !order.Status.CanTransitionTo(next) {
		return &InvalidStateError{OrderID: order.ID, Current: order.Status, Attempted: next}
	}

	if next == StatusCompleted {
		now := time.Now().UTC()
		order.CompletedAt = &now
		price := order.Price
		order.FinalPrice = &price
	}
	order.setStatus(next)
	return nil
}

// CommissionRate is the platform's cut of the order price.
var CommissionRate = decimal.NewFromFloat(0.10)

// Settlement returns the platform commission and the driver's earning for
// this order, both rounded half-up to 2 decimal places.
func (order *Order) Settlement() (commission, driverEarning decimal.Decimal) {
	commission = order.Price.Mul(CommissionRate).Round(2)
	driverEarning = order.Price.Sub(commission)
	return commission, driverEarning
}

// AssignedTo reports whether the given driver is the one on this order.
func (order *Order) AssignedTo(driverID string) bool {
	return order.DriverID != nil && *order.DriverID == driverID
}

func (order *Order) setStatus(status Status) {
	order.Status = status
	order.touch()
}

func (order *Order) touch() {
	order.UpdatedAt = time.Now().UTC()
}
