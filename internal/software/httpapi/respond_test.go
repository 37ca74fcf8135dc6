package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/general/logger"
)

func TestStatusMapping(t *testing.T) {
	insufficient := &wallet.InsufficientFundsError{
		Balance: decimal.NewFromInt(100),
		Amount:  decimal.NewFromInt(1600),
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fault.NotFound("order", "o-1"), http.StatusNotFound},
		{"forbidden", fault.Forbidden("not yours"), http.StatusForbidden},
		{"invalid state", &order.InvalidStateError{OrderID: "o-1", Current: order.StatusAccepted}, http.StatusConflict},
		{"already reviewed", review.ErrAlreadyReviewed, http.StatusConflict},
		{"insufficient funds", insufficient, http.StatusUnprocessableEntity},
		{"invalid amount", &wallet.InvalidAmountError{Amount: decimal.Zero}, http.StatusBadRequest},
		{"payment failure", &order.PaymentError{OrderID: "o-1", Err: insufficient}, http.StatusPaymentRequired},
		{"unknown", errors.New("bad input"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Fatalf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(logger.NewNop(), w, fault.NotFound("order", "o-1"))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == "" {
		t.Fatal("empty error body")
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(logger.NewNop(), w, http.StatusCreated, map[string]string{"status": "ok"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
}
