package service

import (
	"context"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
)

// SubmitReview records one review for a completed order and folds the
// score into the driver's running rating average, both in the same
// transaction. An order can be reviewed at most once.
func (service *reviewService) SubmitReview(ctx context.Context, in ports.SubmitReviewInput) (*review.Review, error) {
	var out *review.Review

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		o, err := service.orderRepo.GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o.CustomerID != in.CustomerUserID {
			return fault.Forbidden("only the ordering customer may review")
		}
		if o.Status != order.StatusCompleted {
			return &order.InvalidStateError{OrderID: o.ID, Current: o.Status}
		}

		if _, err := service.reviewRepo.GetByOrderID(ctx, o.ID); err == nil {
			return review.ErrAlreadyReviewed
		} else if !fault.IsNotFound(err) {
			return err
		}

		r, err := review.NewReview(o.ID, o.CustomerID, *o.DriverID, in.Rating, in.Comment)
		if err != nil {
			return err
		}
		if err := service.reviewRepo.Create(ctx, r); err != nil {
			return err
		}

		d, err := service.driverRepo.GetByID(ctx, *o.DriverID)
		if err != nil {
			return err
		}
		if err := d.ApplyReview(in.Rating); err != nil {
			return err
		}
		if err := service.driverRepo.UpdateRating(ctx, d.ID, d.Rating, d.RatingCount); err != nil {
			return err
		}

		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("review submitted",
		logger.String("order_id", out.OrderID),
		logger.String("driver_id", out.DriverID),
		logger.Int("rating", out.Rating),
	)

	return out, nil
}
