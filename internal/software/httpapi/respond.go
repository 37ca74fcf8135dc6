package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/general/logger"
)

// WriteJSON encodes data to the response. Encoding happens into a buffer
// first so the status line is still controllable on failure.
func WriteJSON(log *logger.Logger, w http.ResponseWriter, status int, data any) {
	buf := []byte("{}")
	if data != nil {
		var err error
		buf, err = json.Marshal(data)
		if err != nil {
			log.Error("response encode failed", logger.Err(err))
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// WriteError maps a service error onto an HTTP status and sends a JSON
// error body.
func WriteError(log *logger.Logger, w http.ResponseWriter, err error) {
	status := Status(err)
	if status >= 500 {
		log.Error("request failed", logger.Err(err))
	} else {
		log.Warn("request rejected", logger.Int("status", status), logger.Err(err))
	}

	type errBody struct {
		Error string `json:"error"`
	}
	WriteJSON(log, w, status, errBody{Error: err.Error()})
}

// Status translates the domain error taxonomy to HTTP status codes.
func Status(err error) int {
	var (
		invalidAmount *wallet.InvalidAmountError
		pgErr         *pgconn.PgError
	)

	switch {
	case errors.As(err, &pgErr):
		return http.StatusInternalServerError
	case fault.IsNotFound(err):
		return http.StatusNotFound
	case fault.IsForbidden(err):
		return http.StatusForbidden
	case order.IsPaymentError(err):
		return http.StatusPaymentRequired
	case order.IsInvalidState(err):
		return http.StatusConflict
	case errors.Is(err, review.ErrAlreadyReviewed):
		return http.StatusConflict
	case wallet.IsInsufficientFunds(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
