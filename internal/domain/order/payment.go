package order

import (
	"errors"
	"fmt"
)

// PaymentError reports a failed settlement. The order stays in IN_TRANSIT
// when it occurs; the wrapped cause tells the caller why the transfer
// could not be made.
type PaymentError struct {
	OrderID string
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("order %s: payment failed: %v", e.OrderID, e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// IsPaymentError reports whether err is (or wraps) a PaymentError.
func IsPaymentError(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}
