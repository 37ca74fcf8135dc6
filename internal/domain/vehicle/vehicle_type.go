package vehicle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleType is a named fare tier: a base fare plus a per-kilometer rate.
// Identity is immutable; pricing may be changed by an admin.
type VehicleType struct {
	ID         string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Name       string
	BaseFare   decimal.Decimal
	PricePerKm decimal.Decimal
}

var (
	ErrNameRequired    = errors.New("vehicle type name is required")
	ErrNegativeFare    = errors.New("base fare cannot be negative")
	ErrNegativeKmPrice = errors.New("price per km cannot be negative")
)

// NewVehicleType constructs a fare tier with a generated UUID.
func NewVehicleType(name string, baseFare, pricePerKm decimal.Decimal) (*VehicleType, error) {
	now := time.Now().UTC()
	vt := &VehicleType{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
		Name:       strings.TrimSpace(name),
		BaseFare:   baseFare,
		PricePerKm: pricePerKm,
	}
	if err := vt.Validate(); err != nil {
		return nil, err
	}
	return vt, nil
}

// Validate checks invariants of the VehicleType entity.
func (vt *VehicleType) Validate() error {
	if vt.Name == "" {
		return ErrNameRequired
	}
	if vt.BaseFare.IsNegative() {
		return ErrNegativeFare
	}
	if vt.PricePerKm.IsNegative() {
		return ErrNegativeKmPrice
	}
	return nil
}

// UpdatePricing changes the fare parameters. Updates UpdatedAt timestamp.
func (vt *VehicleType) UpdatePricing(baseFare, pricePerKm decimal.Decimal) error {
	if baseFare.IsNegative() {
		return ErrNegativeFare
	}
	if pricePerKm.IsNegative() {
		return ErrNegativeKmPrice
	}
	vt.BaseFare = baseFare
	vt.PricePerKm = pricePerKm
	vt.UpdatedAt = time.Now().UTC()
	return nil
}

// Quote computes the price for a trip of the given distance:
// baseFare + distance * pricePerKm, rounded half-up to 2 decimal places.
// The result is fixed at order creation and never recomputed.
func (vt *VehicleType) Quote(distanceKm float64) decimal.Decimal {
	distance := decimal.NewFromFloat(distanceKm)
	return vt.BaseFare.Add(distance.Mul(vt.PricePerKm)).Round(2)
}
