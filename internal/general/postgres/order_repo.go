package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/ports"
)

// OrderRepo persists orders using pgx and plain SQL.
type OrderRepo struct{}

// NewOrderRepo constructs a new OrderRepo.
func NewOrderRepo() ports.OrderRepository {
	return &OrderRepo{}
}

const orderColumns = `
	id, created_at, updated_at,
	customer_id, driver_id, vehicle_type_id,
	pickup_address, pickup_lat, pickup_lng,
	drop_address, drop_lat, drop_lng,
	distance_km, price, final_price, payment_method,
	status, completed_at`

// Create inserts a new order row in PENDING state.
func (repo *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, created_at, updated_at,
			customer_id, driver_id, vehicle_type_id,
			pickup_address, pickup_lat, pickup_lng,
			drop_address, drop_lat, drop_lng,
			distance_km, price, final_price, payment_method,
			status, completed_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`,
		o.ID, o.CreatedAt, o.UpdatedAt,
		o.CustomerID, o.DriverID, o.VehicleTypeID,
		o.Pickup.Address, o.Pickup.Coordinate.Latitude, o.Pickup.Coordinate.Longitude,
		o.Drop.Address, o.Drop.Coordinate.Latitude, o.Drop.Coordinate.Longitude,
		o.DistanceKm, o.Price, o.FinalPrice, string(o.PaymentMethod),
		o.Status.String(), o.CompletedAt,
	)
	return err
}

// GetByID returns one order by id.
func (repo *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return repo.get(ctx, id, false)
}

// GetByIDForUpdate returns the order with its row locked for the rest of
// the surrounding transaction. Racing writers queue on the lock, so the
// domain check that follows sees the latest state.
func (repo *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return repo.get(ctx, id, true)
}

func (repo *OrderRepo) get(ctx context.Context, id string, forUpdate bool) (*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	out, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("order", id)
		}
		return nil, err
	}
	return out, nil
}

// Update persists the mutable part of an already-loaded order: status,
// driver assignment, final price and lifecycle timestamps.
func (repo *OrderRepo) Update(ctx context.Context, o *order.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    driver_id = $2,
		    final_price = $3,
		    completed_at = $4,
		    updated_at = $5
		WHERE id = $6
	`, o.Status.String(), o.DriverID, o.FinalPrice, o.CompletedAt, o.UpdatedAt, o.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("order", o.ID)
	}
	return nil
}

// ListPending returns unassigned orders, oldest first, for drivers to pick
// from.
func (repo *OrderRepo) ListPending(ctx context.Context, limit int) ([]order.Order, error) {
	return repo.list(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE status = 'PENDING'
		ORDER BY created_at
		LIMIT $1
	`, limit)
}

// ListByCustomer returns a customer's orders, newest first.
func (repo *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]order.Order, error) {
	return repo.list(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, customerID, limit)
}

// ListActiveByDriver returns the driver's orders that are still in flight.
func (repo *OrderRepo) ListActiveByDriver(ctx context.Context, driverID string) ([]order.Order, error) {
	return repo.list(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE driver_id = $1
		  AND status IN ('ACCEPTED', 'DRIVER_ARRIVED', 'IN_TRANSIT')
		ORDER BY created_at
	`, driverID)
}

func (repo *OrderRepo) list(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		out, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *out)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		out        order.Order
		statusText string
		method     string
		price      decimal.Decimal
		finalPrice *decimal.Decimal
	)
	if err := row.Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt,
		&out.CustomerID, &out.DriverID, &out.VehicleTypeID,
		&out.Pickup.Address, &out.Pickup.Coordinate.Latitude, &out.Pickup.Coordinate.Longitude,
		&out.Drop.Address, &out.Drop.Coordinate.Latitude, &out.Drop.Coordinate.Longitude,
		&out.DistanceKm, &price, &finalPrice, &method,
		&statusText, &out.CompletedAt,
	); err != nil {
		return nil, err
	}

	out.Price = price
	out.FinalPrice = finalPrice
	out.PaymentMethod = order.PaymentMethod(method)
	out.Status = order.Status(statusText)

	return &out, nil
}
