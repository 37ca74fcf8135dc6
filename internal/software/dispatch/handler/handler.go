package handler

import (
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

// DispatchHTTPHandler adapts HTTP requests to the DispatchService.
type DispatchHTTPHandler struct {
	svc    ports.DispatchService
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewDispatchHTTPHandler wires an HTTP handler around the DispatchService.
func NewDispatchHTTPHandler(svc ports.DispatchService, logger *logger.Logger, auth *jwt.Manager) *DispatchHTTPHandler {
	return &DispatchHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts order endpoints on the provided mux.
func (handler *DispatchHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleCreateOrder),
	)
	mux.HandleFunc("POST /orders/{order_id}/cancel",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleCancelOrder),
	)
	mux.HandleFunc("POST /orders/{order_id}/accept",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleAcceptOrder),
	)
	mux.HandleFunc("POST /orders/{order_id}/status",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleUpdateStatus),
	)
	mux.HandleFunc("GET /orders/pending",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handlePendingOrders),
	)
	mux.HandleFunc("GET /orders/mine",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleCustomerOrders),
	)
	mux.HandleFunc("GET /orders/active",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleActiveOrders),
	)

	mux.HandleFunc("GET /vehicle-types",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleDriver, user.RoleAdmin)(handler.handleListVehicleTypes),
	)
	mux.HandleFunc("PATCH /vehicle-types/{vehicle_type_id}",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleUpdateVehicleTypePricing),
	)

	mux.HandleFunc("GET /health", handler.handleHealth)
	mux.HandleFunc("POST /tokens", handler.handleCreateToken)
}

func (handler *DispatchHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----- token issuing (development bootstrap; identity lives elsewhere) -----

type tokenRequest struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      user.Role `json:"role"`
}

func (handler *DispatchHTTPHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(handler.logger, w, errors.New("invalid request body"))
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		httpapi.WriteError(handler.logger, w, errors.New("user_id is required"))
		return
	}

	token, claims, err := handler.auth.IssueUserToken(req.UserID, req.Role)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusCreated, tokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    req.UserID,
		Role:      req.Role,
	})
}

// decodeStrict decodes a JSON body with unknown fields rejected and the
// size capped.
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
