package driver

import (
	"errors"
	"math"
	"testing"

	"delivery-dispatch/internal/domain/geo"
)

func testDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := NewDriver("user-1", "vt-1", "123ABC01")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSetAvailableRequiresApproval(t *testing.T) {
	d := testDriver(t)
	if err := d.SetAvailable(true); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("got %v", err)
	}

	d.Approve()
	if err := d.SetAvailable(true); err != nil {
		t.Fatal(err)
	}
	if !d.Available {
		t.Fatal("not available after SetAvailable(true)")
	}

	d.Block()
	if d.Available {
		t.Fatal("blocking must force availability off")
	}
	if err := d.SetAvailable(true); !errors.Is(err, ErrBlocked) {
		t.Fatalf("got %v", err)
	}
	// going unavailable is always allowed
	if err := d.SetAvailable(false); err != nil {
		t.Fatal(err)
	}
}

func TestMatchable(t *testing.T) {
	d := testDriver(t)
	if d.Matchable() {
		t.Fatal("fresh driver must not be matchable")
	}

	d.Approve()
	if err := d.SetAvailable(true); err != nil {
		t.Fatal(err)
	}
	if d.Matchable() {
		t.Fatal("driver without a location must not be matchable")
	}

	if err := d.UpdateLocation(geo.Coordinate{Latitude: 51.1, Longitude: 71.4}); err != nil {
		t.Fatal(err)
	}
	if !d.Matchable() {
		t.Fatal("expected matchable")
	}

	d.Block()
	if d.Matchable() {
		t.Fatal("blocked driver must not be matchable")
	}
}

func TestApplyReviewRunningAverage(t *testing.T) {
	d := testDriver(t)
	if err := d.ApplyReview(0); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("got %v", err)
	}
	for _, rating := range []int{5, 4, 3} {
		if err := d.ApplyReview(rating); err != nil {
			t.Fatal(err)
		}
	}
	if d.RatingCount != 3 {
		t.Fatalf("count = %d", d.RatingCount)
	}
	if math.Abs(d.Rating-4.0) > 1e-9 {
		t.Fatalf("rating = %v, want 4.0", d.Rating)
	}
}

func TestUpdateLocationValidates(t *testing.T) {
	d := testDriver(t)
	if err := d.UpdateLocation(geo.Coordinate{Latitude: 99, Longitude: 0}); err == nil {
		t.Fatal("expected validation error")
	}
	if d.Location != nil {
		t.Fatal("invalid update must not set location")
	}
}
