package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/general/jwt"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
	"delivery-dispatch/internal/software/httpapi"
)

const requestTimeout = 5 * time.Second

// ReviewHTTPHandler adapts HTTP requests to the ReviewService.
type ReviewHTTPHandler struct {
	svc    ports.ReviewService
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewReviewHTTPHandler wires an HTTP handler around the ReviewService.
func NewReviewHTTPHandler(svc ports.ReviewService, logger *logger.Logger, auth *jwt.Manager) *ReviewHTTPHandler {
	return &ReviewHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts the review endpoint on the provided mux.
func (handler *ReviewHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders/{order_id}/reviews",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleSubmitReview),
	)
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	DriverID  string    `json:"driver_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (handler *ReviewHTTPHandler) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)
	orderID := r.PathValue("order_id")

	var req submitReviewRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rev, err := handler.svc.SubmitReview(ctx, ports.SubmitReviewInput{
		OrderID:        orderID,
		CustomerUserID: claims.Subject,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusCreated, reviewResponse{
		ID:        rev.ID,
		OrderID:   rev.OrderID,
		DriverID:  rev.DriverID,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt,
	})
}

func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return errors.New("Content-Type must be application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON: " + err.Error())
	}
	return nil
}
