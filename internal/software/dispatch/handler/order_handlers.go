package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/general/jwt"
	"delivery-dispatch/internal/ports"
	"delivery-dispatch/internal/software/httpapi"
)

const requestTimeout = 5 * time.Second

// --- Request DTOs (HTTP boundary) ---

type createOrderRequest struct {
	VehicleTypeID string  `json:"vehicle_type_id"`
	PickupAddress string  `json:"pickup_address"`
	PickupLat     float64 `json:"pickup_latitude"`
	PickupLng     float64 `json:"pickup_longitude"`
	DropAddress   string  `json:"drop_address"`
	DropLat       float64 `json:"drop_latitude"`
	DropLng       float64 `json:"drop_longitude"`
	DistanceKm    float64 `json:"distance_km"`
	PaymentMethod string  `json:"payment_method"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	OrderID       string  `json:"order_id"`
	Status        string  `json:"status"`
	CustomerID    string  `json:"customer_id"`
	DriverID      string  `json:"driver_id,omitempty"`
	PickupAddress string  `json:"pickup_address"`
	DropAddress   string  `json:"drop_address"`
	DistanceKm    float64 `json:"distance_km"`
	Price         string  `json:"price"`
	FinalPrice    string  `json:"final_price,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	res := orderResponse{
		OrderID:       o.ID,
		Status:        o.Status.String(),
		CustomerID:    o.CustomerID,
		PickupAddress: o.Pickup.Address,
		DropAddress:   o.Drop.Address,
		DistanceKm:    o.DistanceKm,
		Price:         o.Price.StringFixed(2),
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.DriverID != nil {
		res.DriverID = *o.DriverID
	}
	if o.FinalPrice != nil {
		res.FinalPrice = o.FinalPrice.StringFixed(2)
	}
	return res
}

// ----- Handler: POST /orders -----

func (handler *DispatchHTTPHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	claims := jwt.RequireClaims(r)

	in := ports.CreateOrderInput{
		CustomerID:    claims.Subject,
		VehicleTypeID: strings.TrimSpace(req.VehicleTypeID),
		PickupAddress: strings.TrimSpace(req.PickupAddress),
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		DropAddress:   strings.TrimSpace(req.DropAddress),
		DropLat:       req.DropLat,
		DropLng:       req.DropLng,
		DistanceKm:    req.DistanceKm,
		PaymentMethod: strings.ToUpper(strings.TrimSpace(req.PaymentMethod)),
	}
	if in.VehicleTypeID == "" {
		httpapi.WriteError(handler.logger, w, errors.New("vehicle_type_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := handler.svc.CreateOrder(ctx, in)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusCreated, toOrderResponse(o))
}

// ----- Handler: POST /orders/{order_id}/cancel -----

func (handler *DispatchHTTPHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("order_id"))
	if orderID == "" {
		httpapi.WriteError(handler.logger, w, errors.New("order_id is required"))
		return
	}

	claims := jwt.RequireClaims(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := handler.svc.CancelOrder(ctx, orderID, claims.Subject)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toOrderResponse(o))
}

// ----- Handler: POST /orders/{order_id}/accept -----

func (handler *DispatchHTTPHandler) handleAcceptOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("order_id"))
	if orderID == "" {
		httpapi.WriteError(handler.logger, w, errors.New("order_id is required"))
		return
	}

	claims := jwt.RequireClaims(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := handler.svc.AcceptOrder(ctx, orderID, claims.Subject)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toOrderResponse(o))
}

// ----- Handler: POST /orders/{order_id}/status -----

func (handler *DispatchHTTPHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.PathValue("order_id"))
	if orderID == "" {
		httpapi.WriteError(handler.logger, w, errors.New("order_id is required"))
		return
	}

	var req updateStatusRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		httpapi.WriteError(handler.logger, w, errors.New("status must be one of: DRIVER_ARRIVED, IN_TRANSIT, COMPLETED"))
		return
	}

	claims := jwt.RequireClaims(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := handler.svc.UpdateOrderStatus(ctx, orderID, claims.Subject, next)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toOrderResponse(o))
}

// ----- List handlers -----

func (handler *DispatchHTTPHandler) handlePendingOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := handler.svc.PendingOrders(ctx, queryLimit(r))
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toOrderResponses(orders))
}

func (handler *DispatchHTTPHandler) handleCustomerOrders(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := handler.svc.CustomerOrders(ctx, claims.Subject, queryLimit(r))
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toOrderResponses(orders))
}

func (handler *DispatchHTTPHandler) handleActiveOrders(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := handler.svc.ActiveDriverOrders(ctx, claims.Subject)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toOrderResponses(orders))
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
