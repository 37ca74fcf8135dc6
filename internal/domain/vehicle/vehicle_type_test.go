package vehicle

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewVehicleTypeValidation(t *testing.T) {
	if _, err := NewVehicleType("  ", decimal.NewFromInt(100), decimal.NewFromInt(150)); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewVehicleType("Car", decimal.NewFromInt(-1), decimal.NewFromInt(150)); !errors.Is(err, ErrNegativeFare) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewVehicleType("Car", decimal.NewFromInt(100), decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeKmPrice) {
		t.Fatalf("got %v", err)
	}
}

func TestQuote(t *testing.T) {
	vt, err := NewVehicleType("Car", decimal.NewFromInt(100), decimal.NewFromInt(150))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		distanceKm float64
		want       string
	}{
		{0, "100.00"},
		{1, "250.00"},
		{10, "1600.00"},
		{2.345, "451.75"}, // 100 + 2.345*150 = 451.75
		{0.333, "149.95"}, // 100 + 49.95
	}
	for _, tt := range tests {
		if got := vt.Quote(tt.distanceKm).StringFixed(2); got != tt.want {
			t.Errorf("Quote(%v) = %s, want %s", tt.distanceKm, got, tt.want)
		}
	}
}

func TestUpdatePricing(t *testing.T) {
	vt, _ := NewVehicleType("Bike", decimal.NewFromInt(50), decimal.NewFromInt(80))
	if err := vt.UpdatePricing(decimal.NewFromInt(-10), decimal.NewFromInt(80)); !errors.Is(err, ErrNegativeFare) {
		t.Fatalf("got %v", err)
	}
	if err := vt.UpdatePricing(decimal.NewFromInt(60), decimal.NewFromInt(90)); err != nil {
		t.Fatal(err)
	}
	if got := vt.Quote(1).StringFixed(2); got != "150.00" {
		t.Fatalf("quote after repricing = %s", got)
	}
}
