package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/ports"
)

// ReviewRepo persists reviews using pgx and plain SQL.
type ReviewRepo struct{}

// NewReviewRepo constructs a new ReviewRepo.
func NewReviewRepo() ports.ReviewRepository {
	return &ReviewRepo{}
}

// Create inserts a review. The unique index on order_id enforces one
// review per order; a duplicate surfaces as ErrAlreadyReviewed.
func (repo *ReviewRepo) Create(ctx context.Context, r *review.Review) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, created_at, order_id, customer_id, driver_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.CreatedAt, r.OrderID, r.CustomerID, r.DriverID, r.Rating, r.Comment)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return review.ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

// GetByOrderID returns the review left for an order.
func (repo *ReviewRepo) GetByOrderID(ctx context.Context, orderID string) (*review.Review, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out review.Review
	err = tx.QueryRow(ctx, `
		SELECT id, created_at, order_id, customer_id, driver_id, rating, comment
		FROM reviews
		WHERE order_id = $1
	`, orderID).Scan(&out.ID, &out.CreatedAt, &out.OrderID, &out.CustomerID, &out.DriverID, &out.Rating, &out.Comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("review", orderID)
		}
		return nil, err
	}

	return &out, nil
}
