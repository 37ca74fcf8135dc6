package redisgeo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/ports"
)

const driverKey = "drivers:geo"

// Index keeps driver positions in a Redis GEO set. It is an advisory fast
// path for nearby lookups; the database remains the source of truth and
// every hit is re-checked there before use.
type Index struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string) (*Index, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Index{rdb: rdb}, nil
}

var _ ports.GeoIndex = (*Index)(nil)

// Upsert records the driver's latest position.
func (idx *Index) Upsert(ctx context.Context, driverID string, coord geo.Coordinate) error {
	return idx.rdb.GeoAdd(ctx, driverKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: coord.Longitude,
		Latitude:  coord.Latitude,
	}).Err()
}

// Nearby returns driver ids within radiusKm of the point, closest first.
func (idx *Index) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]string, error) {
	return idx.rdb.GeoSearch(ctx, driverKey, &redis.GeoSearchQuery{
		Longitude:  lng,
		Latitude:   lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
}

// Remove drops the driver from the index, e.g. when they go unavailable.
func (idx *Index) Remove(ctx context.Context, driverID string) error {
	return idx.rdb.ZRem(ctx, driverKey, driverID).Err()
}

// Close releases the Redis connection.
func (idx *Index) Close() error {
	return idx.rdb.Close()
}
