package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"delivery-dispatch/internal/domain/driver"
	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/memstore"
	"delivery-dispatch/internal/ports"

	"github.com/shopspring/decimal"
)

type fixture struct {
	store *memstore.Store
	svc   ports.ReviewService
	drv   *driver.Driver
	done  *order.Order
	open  *order.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	f := &fixture{
		store: store,
		svc:   NewReviewService(logger.NewNop(), store, store.Orders(), store.Drivers(), store.Reviews()),
	}

	vt, err := vehicle.NewVehicleType("Car", decimal.NewFromInt(100), decimal.NewFromInt(150))
	if err != nil {
		t.Fatal(err)
	}
	f.drv, err = driver.NewDriver("driver-user", vt.ID, "123ABC01")
	if err != nil {
		t.Fatal(err)
	}
	f.drv.Approve()

	pickup := order.Location{Address: "A", Coordinate: geo.Coordinate{Latitude: 51.1, Longitude: 71.4}}
	drop := order.Location{Address: "B", Coordinate: geo.Coordinate{Latitude: 51.2, Longitude: 71.5}}

	f.done, err = order.NewOrder("customer-1", vt, pickup, drop, 10, order.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.done.Accept(f.drv.ID); err != nil {
		t.Fatal(err)
	}
	for _, next := range []order.Status{order.StatusDriverArrived, order.StatusInTransit, order.StatusCompleted} {
		if err := f.done.Advance(next); err != nil {
			t.Fatal(err)
		}
	}

	f.open, err = order.NewOrder("customer-1", vt, pickup, drop, 10, order.PaymentCash)
	if err != nil {
		t.Fatal(err)
	}

	err = store.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := store.Drivers().Create(ctx, f.drv); err != nil {
			return err
		}
		if err := store.Orders().Create(ctx, f.done); err != nil {
			return err
		}
		return store.Orders().Create(ctx, f.open)
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) driverState(t *testing.T) *driver.Driver {
	t.Helper()
	var d *driver.Driver
	err := f.store.WithinTx(context.Background(), func(ctx context.Context) error {
		var err error
		d, err = f.store.Drivers().GetByID(ctx, f.drv.ID)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSubmitReviewUpdatesDriverRating(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.SubmitReview(context.Background(), ports.SubmitReviewInput{
		OrderID:        f.done.ID,
		CustomerUserID: "customer-1",
		Rating:         4,
		Comment:        "smooth trip",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.OrderID != f.done.ID || r.DriverID != f.drv.ID || r.Rating != 4 {
		t.Fatalf("review = %+v", r)
	}

	d := f.driverState(t)
	if d.RatingCount != 1 || math.Abs(d.Rating-4.0) > 1e-9 {
		t.Fatalf("driver rating = %v (%d)", d.Rating, d.RatingCount)
	}
}

func TestSubmitReviewOncePerOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := ports.SubmitReviewInput{OrderID: f.done.ID, CustomerUserID: "customer-1", Rating: 5}
	if _, err := f.svc.SubmitReview(ctx, in); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SubmitReview(ctx, in); !errors.Is(err, review.ErrAlreadyReviewed) {
		t.Fatalf("got %v, want ErrAlreadyReviewed", err)
	}

	// the failed second attempt must not touch the average
	d := f.driverState(t)
	if d.RatingCount != 1 {
		t.Fatalf("rating count = %d", d.RatingCount)
	}
}

func TestSubmitReviewGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		OrderID: f.done.ID, CustomerUserID: "intruder", Rating: 5,
	})
	if !fault.IsForbidden(err) {
		t.Fatalf("got %v, want Forbidden", err)
	}

	_, err = f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		OrderID: f.open.ID, CustomerUserID: "customer-1", Rating: 5,
	})
	if !order.IsInvalidState(err) {
		t.Fatalf("got %v, want InvalidStateError", err)
	}

	_, err = f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		OrderID: f.done.ID, CustomerUserID: "customer-1", Rating: 7,
	})
	if !errors.Is(err, review.ErrInvalidRating) {
		t.Fatalf("got %v, want ErrInvalidRating", err)
	}

	_, err = f.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		OrderID: "missing", CustomerUserID: "customer-1", Rating: 5,
	})
	if !fault.IsNotFound(err) {
		t.Fatalf("got %v, want NotFound", err)
	}
}
