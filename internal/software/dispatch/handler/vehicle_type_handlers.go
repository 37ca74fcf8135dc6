package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/software/httpapi"
)

type updatePricingRequest struct {
	BaseFare   string `json:"base_fare"`
	PricePerKm string `json:"price_per_km"`
}

type vehicleTypeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BaseFare   string `json:"base_fare"`
	PricePerKm string `json:"price_per_km"`
}

func toVehicleTypeResponse(vt *vehicle.VehicleType) vehicleTypeResponse {
	return vehicleTypeResponse{
		ID:         vt.ID,
		Name:       vt.Name,
		BaseFare:   vt.BaseFare.StringFixed(2),
		PricePerKm: vt.PricePerKm.StringFixed(2),
	}
}

// ----- Handler: GET /vehicle-types -----

func (handler *DispatchHTTPHandler) handleListVehicleTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	types, err := handler.svc.ListVehicleTypes(ctx)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	out := make([]vehicleTypeResponse, 0, len(types))
	for i := range types {
		out = append(out, toVehicleTypeResponse(&types[i]))
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, out)
}

// ----- Handler: PATCH /vehicle-types/{vehicle_type_id} -----

func (handler *DispatchHTTPHandler) handleUpdateVehicleTypePricing(w http.ResponseWriter, r *http.Request) {
	var req updatePricingRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	baseFare, err := decimal.NewFromString(req.BaseFare)
	if err != nil {
		httpapi.WriteError(handler.logger, w, errors.New("base_fare must be a decimal number"))
		return
	}
	pricePerKm, err := decimal.NewFromString(req.PricePerKm)
	if err != nil {
		httpapi.WriteError(handler.logger, w, errors.New("price_per_km must be a decimal number"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	vt, err := handler.svc.UpdateVehicleTypePricing(ctx, r.PathValue("vehicle_type_id"), baseFare, pricePerKm)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	httpapi.WriteJSON(handler.logger, w, http.StatusOK, toVehicleTypeResponse(vt))
}
