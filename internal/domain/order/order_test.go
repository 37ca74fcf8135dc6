package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/vehicle"
)

func testVehicleType(t *testing.T) *vehicle.VehicleType {
	t.Helper()
	vt, err := vehicle.NewVehicleType("Car", decimal.NewFromInt(100), decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("new vehicle type: %v", err)
	}
	return vt
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	pickup := Location{Address: "A", Coordinate: geo.Coordinate{Latitude: 51.1, Longitude: 71.4}}
	drop := Location{Address: "B", Coordinate: geo.Coordinate{Latitude: 51.2, Longitude: 71.5}}
	o, err := NewOrder("customer-1", testVehicleType(t), pickup, drop, 10, PaymentWallet)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return o
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInTransit, false},
		{StatusPending, StatusCompleted, false},
		{StatusAccepted, StatusDriverArrived, true},
		{StatusAccepted, StatusCancelled, false},
		{StatusAccepted, StatusInTransit, false},
		{StatusDriverArrived, StatusInTransit, true},
		{StatusDriverArrived, StatusCompleted, false},
		{StatusInTransit, StatusCompleted, true},
		{StatusInTransit, StatusCancelled, false},
		{StatusCompleted, StatusInTransit, false},
		{StatusCancelled, StatusAccepted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" in_transit "); err != nil || s != StatusInTransit {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := ParseStatus("FLYING"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestNewOrderQuotesPrice(t *testing.T) {
	o := testOrder(t)
	if o.Status != StatusPending {
		t.Fatalf("status = %s, want PENDING", o.Status)
	}
	// 100 + 10 * 150
	if want := "1600.00"; o.Price.StringFixed(2) != want {
		t.Fatalf("price = %s, want %s", o.Price.StringFixed(2), want)
	}
	if o.DriverID != nil {
		t.Fatal("new order must not have a driver")
	}
}

func TestAccept(t *testing.T) {
	o := testOrder(t)
	if err := o.Accept("driver-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if o.Status != StatusAccepted || o.DriverID == nil || *o.DriverID != "driver-1" {
		t.Fatalf("status = %s, driver = %v", o.Status, o.DriverID)
	}

	err := o.Accept("driver-2")
	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("second accept: got %v, want InvalidStateError", err)
	}
	if ise.Current != StatusAccepted {
		t.Fatalf("current = %s, want ACCEPTED", ise.Current)
	}
	if *o.DriverID != "driver-1" {
		t.Fatalf("driver changed to %s", *o.DriverID)
	}
}

func TestCancelOnlyWhilePending(t *testing.T) {
	o := testOrder(t)
	if err := o.Cancel(); err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if o.Status != StatusCancelled {
		t.Fatalf("status = %s", o.Status)
	}

	accepted := testOrder(t)
	if err := accepted.Accept("driver-1"); err != nil {
		t.Fatal(err)
	}
	err := accepted.Cancel()
	if !IsInvalidState(err) {
		t.Fatalf("cancel after accept: got %v, want InvalidStateError", err)
	}
	var is *InvalidStateError
	errors.As(err, &is)
	if is.Current != StatusAccepted {
		t.Fatalf("error carries status %s, want ACCEPTED", is.Current)
	}
	if accepted.Status != StatusAccepted || *accepted.DriverID != "driver-1" {
		t.Fatal("failed cancel must not change the order")
	}
}

func TestAdvanceToCompletionStampsFinalPrice(t *testing.T) {
	o := testOrder(t)
	if err := o.Accept("driver-1"); err != nil {
		t.Fatal(err)
	}
	for _, next := range []Status{StatusDriverArrived, StatusInTransit, StatusCompleted} {
		if err := o.Advance(next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	if o.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	if o.FinalPrice == nil || !o.FinalPrice.Equal(o.Price) {
		t.Fatalf("final price = %v, want %s", o.FinalPrice, o.Price)
	}
}

func TestAdvanceRejectsSkipsAndCancellation(t *testing.T) {
	o := testOrder(t)
	if err := o.Advance(StatusDriverArrived); !errors.Is(err, ErrNoDriverAssigned) {
		t.Fatalf("advance without driver: %v", err)
	}
	if err := o.Accept("driver-1"); err != nil {
		t.Fatal(err)
	}
	if err := o.Advance(StatusCompleted); !IsInvalidState(err) {
		t.Fatalf("skip to COMPLETED: %v", err)
	}
	if err := o.Advance(StatusCancelled); !IsInvalidState(err) {
		t.Fatalf("driver cancellation: %v", err)
	}
}

func TestSettlementSplit(t *testing.T) {
	o := testOrder(t)
	commission, earning := o.Settlement()
	if want := "160.00"; commission.StringFixed(2) != want {
		t.Fatalf("commission = %s, want %s", commission.StringFixed(2), want)
	}
	if want := "1440.00"; earning.StringFixed(2) != want {
		t.Fatalf("earning = %s, want %s", earning.StringFixed(2), want)
	}
	if !commission.Add(earning).Equal(o.Price) {
		t.Fatal("commission + earning must equal the price")
	}
}

func TestPaymentErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &PaymentError{OrderID: "o1", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("PaymentError must unwrap to its cause")
	}
	if !IsPaymentError(error(err)) {
		t.Fatal("IsPaymentError")
	}
}

func TestNewOrderValidatesPaymentMethod(t *testing.T) {
	pickup := Location{Address: "A", Coordinate: geo.Coordinate{Latitude: 51.1, Longitude: 71.4}}
	drop := Location{Address: "B", Coordinate: geo.Coordinate{Latitude: 51.2, Longitude: 71.5}}

	if _, err := NewOrder("customer-1", testVehicleType(t), pickup, drop, 10, "FOO"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("got %v, want ErrInvalidPaymentMethod", err)
	}

	o, err := NewOrder("customer-1", testVehicleType(t), pickup, drop, 10, "")
	if err != nil {
		t.Fatalf("empty method: %v", err)
	}
	if o.PaymentMethod != PaymentWallet {
		t.Fatalf("default method = %s, want WALLET", o.PaymentMethod)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{"WALLET", PaymentWallet, false},
		{" cash ", PaymentCash, false},
		{"", PaymentWallet, false},
		{"CARD", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePaymentMethod(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPaymentMethod) {
				t.Fatalf("%q: got %v, want ErrInvalidPaymentMethod", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %s, %v; want %s", tc.in, got, err, tc.want)
		}
	}
}
