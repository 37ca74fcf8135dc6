package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/ports"
)

// VehicleTypeRepo persists fare tiers using pgx and plain SQL.
type VehicleTypeRepo struct{}

// NewVehicleTypeRepo constructs a new VehicleTypeRepo.
func NewVehicleTypeRepo() ports.VehicleTypeRepository {
	return &VehicleTypeRepo{}
}

// Create inserts a new fare tier.
func (repo *VehicleTypeRepo) Create(ctx context.Context, vt *vehicle.VehicleType) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_types (id, created_at, updated_at, name, base_fare, price_per_km)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, vt.ID, vt.CreatedAt, vt.UpdatedAt, vt.Name, vt.BaseFare, vt.PricePerKm)
	return err
}

// GetByID returns one fare tier by id.
func (repo *VehicleTypeRepo) GetByID(ctx context.Context, id string) (*vehicle.VehicleType, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out vehicle.VehicleType
	err = tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at, name, base_fare, price_per_km
		FROM vehicle_types
		WHERE id = $1
	`, id).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.Name, &out.BaseFare, &out.PricePerKm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("vehicle type", id)
		}
		return nil, err
	}

	return &out, nil
}

// List returns all fare tiers ordered by name.
func (repo *VehicleTypeRepo) List(ctx context.Context) ([]vehicle.VehicleType, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, updated_at, name, base_fare, price_per_km
		FROM vehicle_types
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []vehicle.VehicleType
	for rows.Next() {
		var out vehicle.VehicleType
		if err := rows.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.Name, &out.BaseFare, &out.PricePerKm); err != nil {
			return nil, err
		}
		types = append(types, out)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

// UpdatePricing changes the fare parameters of an existing tier. Orders
// quoted before the change keep their price.
func (repo *VehicleTypeRepo) UpdatePricing(ctx context.Context, id string, baseFare, pricePerKm decimal.Decimal) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE vehicle_types
		SET base_fare = $1,
		    price_per_km = $2,
		    updated_at = now()
		WHERE id = $3
	`, baseFare, pricePerKm, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("vehicle type", id)
	}
	return nil
}
