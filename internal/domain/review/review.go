package review

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating of a completed order, 1:1 with the order.
// Scores feed the driver's running rating average.
type Review struct {
	ID         string
	CreatedAt  time.Time
	OrderID    string
	CustomerID string
	DriverID   string
	Rating     int
	Comment    string
}

var (
	ErrOrderRequired    = errors.New("order id is required")
	ErrCustomerRequired = errors.New("customer id is required")
	ErrDriverRequired   = errors.New("driver id is required")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed  = errors.New("order already reviewed")
)

// NewReview builds a review for a completed order.
func NewReview(orderID, customerID, driverID string, rating int, comment string) (*Review, error) {
	if orderID = strings.TrimSpace(orderID); orderID == "" {
		return nil, ErrOrderRequired
	}
	if customerID = strings.TrimSpace(customerID); customerID == "" {
		return nil, ErrCustomerRequired
	}
	if driverID = strings.TrimSpace(driverID); driverID == "" {
		return nil, ErrDriverRequired
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	return &Review{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		OrderID:    orderID,
		CustomerID: customerID,
		DriverID:   driverID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}, nil
}
