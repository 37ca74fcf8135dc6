package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"delivery-dispatch/internal/domain/driver"
	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/ports"
)

// DriverRepo persists drivers using pgx and plain SQL.
type DriverRepo struct{}

// NewDriverRepo constructs a new DriverRepo.
func NewDriverRepo() ports.DriverRepository {
	return &DriverRepo{}
}

const driverColumns = `
	id, created_at, updated_at,
	user_id, vehicle_type_id, plate_number,
	approved, available, blocked,
	latitude, longitude,
	rating, rating_count`

// Create inserts a new driver row. The referenced user must already exist in users(id).
func (repo *DriverRepo) Create(ctx context.Context, d *driver.Driver) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	var lat, lng *float64
	if d.Location != nil {
		lat, lng = &d.Location.Latitude, &d.Location.Longitude
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO drivers (
			id, created_at, updated_at,
			user_id, vehicle_type_id, plate_number,
			approved, available, blocked,
			latitude, longitude,
			rating, rating_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		d.ID, d.CreatedAt, d.UpdatedAt,
		d.UserID, d.VehicleTypeID, d.PlateNumber,
		d.Approved, d.Available, d.Blocked,
		lat, lng,
		d.Rating, d.RatingCount,
	)
	return err
}

// GetByID returns one driver by id.
func (repo *DriverRepo) GetByID(ctx context.Context, driverID string) (*driver.Driver, error) {
	return repo.getBy(ctx, `WHERE id = $1`, driverID)
}

// GetByUserID returns the driver profile owned by a user. The user_id
// column carries a unique index so this is a direct lookup.
func (repo *DriverRepo) GetByUserID(ctx context.Context, userID string) (*driver.Driver, error) {
	return repo.getBy(ctx, `WHERE user_id = $1`, userID)
}

func (repo *DriverRepo) getBy(ctx context.Context, where, arg string) (*driver.Driver, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `SELECT`+driverColumns+` FROM drivers `+where, arg)
	out, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("driver", arg)
		}
		return nil, err
	}
	return out, nil
}

// SetAvailable flips the availability flag (idempotent if unchanged).
func (repo *DriverRepo) SetAvailable(ctx context.Context, driverID string, available bool) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE drivers
		SET available = $1,
		    updated_at = now()
		WHERE id = $2
	`, available, driverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("driver", driverID)
	}
	return nil
}

// SetApproval sets the admin gating flags.
func (repo *DriverRepo) SetApproval(ctx context.Context, driverID string, approved, blocked bool) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE drivers
		SET approved = $1,
		    blocked = $2,
		    available = CASE WHEN $2 THEN false ELSE available END,
		    updated_at = now()
		WHERE id = $3
	`, approved, blocked, driverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("driver", driverID)
	}
	return nil
}

// UpdateLocation overwrites the driver position. Last write wins; no
// history is kept.
func (repo *DriverRepo) UpdateLocation(ctx context.Context, driverID string, coord geo.Coordinate, at time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE drivers
		SET latitude = $1,
		    longitude = $2,
		    updated_at = $3
		WHERE id = $4
	`, coord.Latitude, coord.Longitude, at, driverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("driver", driverID)
	}
	return nil
}

// UpdateRating stores the recomputed running average and count.
func (repo *DriverRepo) UpdateRating(ctx context.Context, driverID string, rating float64, count int) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE drivers
		SET rating = $1,
		    rating_count = $2,
		    updated_at = now()
		WHERE id = $3
	`, rating, count, driverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("driver", driverID)
	}
	return nil
}

// FindNearby returns matchable drivers within radiusKm of the point,
// ordered by ascending great-circle distance. A lat/lng bounding box
// prunes the scan before the exact acos haversine runs.
func (repo *DriverRepo) FindNearby(
	ctx context.Context,
	lat, lng float64,
	radiusKm float64,
	limit int,
) ([]ports.NearbyDriver, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	minLat, maxLat, minLng, maxLng := geo.BoundingBox(lat, lng, radiusKm)

	rows, err := tx.Query(ctx, `
		SELECT
			d.id, d.created_at, d.updated_at,
			d.user_id, d.vehicle_type_id, d.plate_number,
			d.approved, d.available, d.blocked,
			d.latitude, d.longitude,
			d.rating, d.rating_count,
			6371 * acos(
				LEAST(1.0, GREATEST(-1.0,
					cos(radians($1)) * cos(radians(d.latitude)) *
					cos(radians(d.longitude) - radians($2)) +
					sin(radians($1)) * sin(radians(d.latitude))
				))
			) AS distance_km
		FROM drivers d
		WHERE d.available = true
		  AND d.approved = true
		  AND d.blocked = false
		  AND d.latitude IS NOT NULL
		  AND d.longitude IS NOT NULL
		  AND d.latitude BETWEEN $3 AND $4
		  AND d.longitude BETWEEN $5 AND $6
		  AND 6371 * acos(
				LEAST(1.0, GREATEST(-1.0,
					cos(radians($1)) * cos(radians(d.latitude)) *
					cos(radians(d.longitude) - radians($2)) +
					sin(radians($1)) * sin(radians(d.latitude))
				))
			) <= $7
		ORDER BY distance_km, d.rating DESC
		LIMIT $8
	`, lat, lng, minLat, maxLat, minLng, maxLng, radiusKm, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nearby []ports.NearbyDriver
	for rows.Next() {
		var (
			out        driver.Driver
			dbLat      *float64
			dbLng      *float64
			distanceKm float64
		)
		if err := rows.Scan(
			&out.ID, &out.CreatedAt, &out.UpdatedAt,
			&out.UserID, &out.VehicleTypeID, &out.PlateNumber,
			&out.Approved, &out.Available, &out.Blocked,
			&dbLat, &dbLng,
			&out.Rating, &out.RatingCount,
			&distanceKm,
		); err != nil {
			return nil, err
		}
		if dbLat != nil && dbLng != nil {
			out.Location = &geo.Coordinate{Latitude: *dbLat, Longitude: *dbLng}
		}
		nearby = append(nearby, ports.NearbyDriver{Driver: out, DistanceKm: distanceKm})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nearby, nil
}

func scanDriver(row pgx.Row) (*driver.Driver, error) {
	var (
		out driver.Driver
		lat *float64
		lng *float64
	)
	if err := row.Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt,
		&out.UserID, &out.VehicleTypeID, &out.PlateNumber,
		&out.Approved, &out.Available, &out.Blocked,
		&lat, &lng,
		&out.Rating, &out.RatingCount,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		out.Location = &geo.Coordinate{Latitude: *lat, Longitude: *lng}
	}
	return &out, nil
}
