package order

import (
	"errors"
	"strings"
)

// Status is an order status as stored in the `orders` table.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusAccepted      Status = "ACCEPTED"
	StatusDriverArrived Status = "DRIVER_ARRIVED"
	StatusInTransit     Status = "IN_TRANSIT"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
)

var ErrInvalidStatus = errors.New("invalid order status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusPending, StatusAccepted, StatusDriverArrived, StatusInTransit, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
// Cancellation is reachable from PENDING only; once a driver has accepted,
// the order can only move forward.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusPending:
		return next == StatusAccepted || next == StatusCancelled

	case StatusAccepted:
		return next == StatusDriverArrived

	case StatusDriverArrived:
		return next == StatusInTransit

	case StatusInTransit:
		return next == StatusCompleted

	case StatusCompleted, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal indicates if the status is a terminal state.
func (status Status) Terminal() bool {
	return status == StatusCompleted || status == StatusCancelled
}
