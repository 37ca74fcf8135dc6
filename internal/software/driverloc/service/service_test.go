package service

import (
	"context"
	"errors"
	"testing"

	"delivery-dispatch/internal/domain/driver"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/memstore"
	"delivery-dispatch/internal/ports"
)

// fakeGeoIndex records calls and serves its current candidate list.
type fakeGeoIndex struct {
	ids     []string
	err     error
	upserts int
	removed []string
}

func (f *fakeGeoIndex) Upsert(ctx context.Context, driverID string, coord geo.Coordinate) error {
	f.upserts++
	for _, id := range f.ids {
		if id == driverID {
			return nil
		}
	}
	f.ids = append(f.ids, driverID)
	return nil
}

func (f *fakeGeoIndex) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]string, error) {
	return f.ids, f.err
}

func (f *fakeGeoIndex) Remove(ctx context.Context, driverID string) error {
	f.removed = append(f.removed, driverID)
	kept := f.ids[:0]
	for _, id := range f.ids {
		if id != driverID {
			kept = append(kept, id)
		}
	}
	f.ids = kept
	return nil
}

func seedDriver(t *testing.T, store *memstore.Store, userID string, approved, available bool, lat, lng float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(userID, "vt-1", "123ABC01")
	if err != nil {
		t.Fatal(err)
	}
	if approved {
		d.Approve()
	}
	if available {
		if err := d.SetAvailable(true); err != nil {
			t.Fatal(err)
		}
	}
	if lat != 0 || lng != 0 {
		if err := d.UpdateLocation(geo.Coordinate{Latitude: lat, Longitude: lng}); err != nil {
			t.Fatal(err)
		}
	}
	err = store.WithinTx(context.Background(), func(ctx context.Context) error {
		return store.Drivers().Create(ctx, d)
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestUpdateLocation(t *testing.T) {
	store := memstore.New()
	idx := &fakeGeoIndex{}
	svc := NewDriverLocationService(logger.NewNop(), store, store.Drivers(), idx, nil, 5, 20)
	d := seedDriver(t, store, "user-1", true, true, 0, 0)

	result, err := svc.UpdateLocation(context.Background(), "user-1", 51.1283, 71.4305)
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if result.DriverID != d.ID || result.Latitude != 51.1283 {
		t.Fatalf("result = %+v", result)
	}
	if idx.upserts != 1 {
		t.Fatalf("index upserts = %d", idx.upserts)
	}

	// out-of-range coordinates never reach the store
	if _, err := svc.UpdateLocation(context.Background(), "user-1", 95, 0); !errors.Is(err, geo.ErrInvalidLatitude) {
		t.Fatalf("got %v", err)
	}
}

func TestSetAvailabilityGuards(t *testing.T) {
	store := memstore.New()
	idx := &fakeGeoIndex{}
	svc := NewDriverLocationService(logger.NewNop(), store, store.Drivers(), idx, nil, 5, 20)

	seedDriver(t, store, "user-raw", false, false, 0, 0)
	if err := svc.SetAvailability(context.Background(), "user-raw", true); !errors.Is(err, driver.ErrNotApproved) {
		t.Fatalf("got %v", err)
	}

	d := seedDriver(t, store, "user-ok", true, true, 51.1, 71.4)
	if err := svc.SetAvailability(context.Background(), "user-ok", false); err != nil {
		t.Fatal(err)
	}
	if len(idx.removed) != 1 || idx.removed[0] != d.ID {
		t.Fatalf("index removals = %v", idx.removed)
	}
}

func TestFindNearbyFiltersAndSorts(t *testing.T) {
	store := memstore.New()
	svc := NewDriverLocationService(logger.NewNop(), store, store.Drivers(), nil, nil, 5, 20)

	center := geo.Coordinate{Latitude: 51.1283, Longitude: 71.4305}

	near := seedDriver(t, store, "user-near", true, true, center.Latitude+0.005, center.Longitude)
	far := seedDriver(t, store, "user-far", true, true, center.Latitude+0.02, center.Longitude)
	seedDriver(t, store, "user-out", true, true, center.Latitude+1, center.Longitude)     // outside radius
	seedDriver(t, store, "user-off", true, false, center.Latitude, center.Longitude)      // unavailable
	seedDriver(t, store, "user-raw", false, false, center.Latitude, center.Longitude)     // unapproved
	seedDriver(t, store, "user-noloc", true, true, 0, 0)                                  // no location

	results, err := svc.FindNearbyDrivers(context.Background(), center.Latitude, center.Longitude, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].DriverID != near.ID || results[1].DriverID != far.ID {
		t.Fatalf("order = %s, %s", results[0].DriverID, results[1].DriverID)
	}
	if results[0].DistanceKm >= results[1].DistanceKm {
		t.Fatal("not sorted by distance")
	}
}

func TestFindNearbyViaIndexRechecksRepository(t *testing.T) {
	store := memstore.New()
	center := geo.Coordinate{Latitude: 51.1283, Longitude: 71.4305}

	good := seedDriver(t, store, "user-good", true, true, center.Latitude+0.005, center.Longitude)
	off := seedDriver(t, store, "user-off", true, false, center.Latitude, center.Longitude)

	// the index offers a stale id, an unavailable driver, and a good one
	idx := &fakeGeoIndex{ids: []string{"gone", off.ID, good.ID}}
	svc := NewDriverLocationService(logger.NewNop(), store, store.Drivers(), idx, nil, 5, 20)

	results, err := svc.FindNearbyDrivers(context.Background(), center.Latitude, center.Longitude, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].DriverID != good.ID {
		t.Fatalf("results = %+v", results)
	}
}

func TestAvailabilityToggleKeepsDriverIndexed(t *testing.T) {
	store := memstore.New()
	center := geo.Coordinate{Latitude: 51.1283, Longitude: 71.4305}
	d := seedDriver(t, store, "user-1", true, true, center.Latitude+0.005, center.Longitude)

	idx := &fakeGeoIndex{ids: []string{d.ID}}
	svc := NewDriverLocationService(logger.NewNop(), store, store.Drivers(), idx, nil, 5, 20)

	if err := svc.SetAvailability(context.Background(), "user-1", false); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetAvailability(context.Background(), "user-1", true); err != nil {
		t.Fatal(err)
	}
	if idx.upserts != 1 {
		t.Fatalf("index upserts = %d, want 1", idx.upserts)
	}

	results, err := svc.FindNearbyDrivers(context.Background(), center.Latitude, center.Longitude, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].DriverID != d.ID {
		t.Fatalf("results = %+v", results)
	}
}

func TestFindNearbyFallsBackWhenIndexFails(t *testing.T) {
	store := memstore.New()
	center := geo.Coordinate{Latitude: 51.1283, Longitude: 71.4305}
	d := seedDriver(t, store, "user-1", true, true, center.Latitude+0.005, center.Longitude)

	idx := &fakeGeoIndex{err: errors.New("redis down")}
	svc := NewDriverLocationService(logger.NewNop(), store, store.Drivers(), idx, nil, 5, 20)

	results, err := svc.FindNearbyDrivers(context.Background(), center.Latitude, center.Longitude, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].DriverID != d.ID {
		t.Fatalf("results = %+v", results)
	}
}

var _ ports.GeoIndex = (*fakeGeoIndex)(nil)
