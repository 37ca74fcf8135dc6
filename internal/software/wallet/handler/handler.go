package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/general/jwt"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
	"delivery-dispatch/internal/software/httpapi"
)

const requestTimeout = 5 * time.Second

// WalletHTTPHandler adapts HTTP requests to the WalletService.
type WalletHTTPHandler struct {
	svc    ports.WalletService
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewWalletHTTPHandler wires an HTTP handler around the WalletService.
func NewWalletHTTPHandler(svc ports.WalletService, logger *logger.Logger, auth *jwt.Manager) *WalletHTTPHandler {
	return &WalletHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts wallet endpoints on the provided mux. Customers
// and drivers both own a wallet.
func (handler *WalletHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /wallet",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleDriver)(handler.handleBalance),
	)
	mux.HandleFunc("POST /wallet/topup",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleDriver)(handler.handleTopUp),
	)
	mux.HandleFunc("POST /wallet/transfer",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleDriver)(handler.handleTransfer),
	)
	mux.HandleFunc("GET /wallet/history",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleDriver)(handler.handleHistory),
	)
}

type balanceResponse struct {
	UserID  string `json:"user_id"`
	Balance string `json:"balance"`
}

func (handler *WalletHTTPHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	balance, err := handler.svc.GetBalance(ctx, claims.Subject)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, balanceResponse{
		UserID:  claims.Subject,
		Balance: balance.StringFixed(2),
	})
}

type topUpRequest struct {
	Amount string `json:"amount"`
}

func (handler *WalletHTTPHandler) handleTopUp(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	var req topUpRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	wlt, err := handler.svc.TopUp(ctx, claims.Subject, amount)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, balanceResponse{
		UserID:  claims.Subject,
		Balance: wlt.Balance.StringFixed(2),
	})
}

type transferRequest struct {
	ReceiverUserID string `json:"receiver_user_id"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
}

func (handler *WalletHTTPHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	var req transferRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	if strings.TrimSpace(req.ReceiverUserID) == "" {
		httpapi.WriteError(handler.logger, w, errors.New("receiver_user_id is required"))
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := handler.svc.Transfer(ctx, claims.Subject, req.ReceiverUserID, amount, req.Description); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, map[string]string{"status": "transferred"})
}

type transactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (handler *WalletHTTPHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)
	limit := queryLimit(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	txs, err := handler.svc.History(ctx, claims.Subject, limit)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toTransactionResponses(txs))
}

func toTransactionResponses(txs []wallet.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		out = append(out, transactionResponse{
			ID:          tx.ID,
			Type:        tx.Type.String(),
			Amount:      tx.Amount.StringFixed(2),
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return out
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.New("amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New("amount must be a decimal number")
	}
	return amount, nil
}

func queryLimit(r *http.Request) int {
	const (
		defaultLimit = 50
		maxLimit     = 100
	)
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
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
