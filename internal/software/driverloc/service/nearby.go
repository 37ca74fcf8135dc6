package service

import (
	"context"
	"sort"
	"time"

	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/observability"
	"delivery-dispatch/internal/ports"
)

// FindNearbyDrivers returns matchable drivers within radiusKm of the
// point, closest first. When a geo index is configured it narrows the
// candidate set; every candidate is still re-checked against the
// repository, which stays the source of truth.
func (service *driverLocationService) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]ports.NearbyDriverResult, error) {
	if _, err := geo.NewCoordinate(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = service.defaultRadiusKm
	}

	start := time.Now()
	defer func() {
		observability.NearbySearchDuration.Observe(time.Since(start).Seconds())
	}()

	if service.geoIndex != nil {
		results, err := service.nearbyViaIndex(ctx, lat, lng, radiusKm)
		if err == nil {
			return results, nil
		}
		service.logger.Warn("geo index lookup failed, falling back to repository", logger.Err(err))
	}

	return service.nearbyViaRepo(ctx, lat, lng, radiusKm)
}

func (service *driverLocationService) nearbyViaRepo(ctx context.Context, lat, lng, radiusKm float64) ([]ports.NearbyDriverResult, error) {
	var nearby []ports.NearbyDriver
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		nearby, err = service.driverRepo.FindNearby(ctx, lat, lng, radiusKm, service.nearbyLimit)
		return err
	})
	if err != nil {
		return nil, err
	}

	results := make([]ports.NearbyDriverResult, 0, len(nearby))
	for _, n := range nearby {
		results = append(results, toResult(n))
	}
	return results, nil
}

func (service *driverLocationService) nearbyViaIndex(ctx context.Context, lat, lng, radiusKm float64) ([]ports.NearbyDriverResult, error) {
	ids, err := service.geoIndex.Nearby(ctx, lat, lng, radiusKm, service.nearbyLimit)
	if err != nil {
		return nil, err
	}

	var results []ports.NearbyDriverResult
	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			d, err := service.driverRepo.GetByID(ctx, id)
			if err != nil {
				// stale index entry
				continue
			}
			if !d.Matchable() {
				continue
			}
			dist := geo.HaversineKM(lat, lng, d.Location.Latitude, d.Location.Longitude)
			if dist > radiusKm {
				continue
			}
			results = append(results, toResult(ports.NearbyDriver{Driver: *d, DistanceKm: dist}))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].DistanceKm < results[j].DistanceKm })
	return results, nil
}

func toResult(n ports.NearbyDriver) ports.NearbyDriverResult {
	return ports.NearbyDriverResult{
		DriverID:    n.Driver.ID,
		PlateNumber: n.Driver.PlateNumber,
		Latitude:    n.Driver.Location.Latitude,
		Longitude:   n.Driver.Location.Longitude,
		DistanceKm:  n.DistanceKm,
		Rating:      n.Driver.Rating,
	}
}
