package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/general/jwt"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
	"delivery-dispatch/internal/software/httpapi"
)

const requestTimeout = 5 * time.Second

// DriverLocationHTTPHandler adapts HTTP requests to the DriverLocationService.
type DriverLocationHTTPHandler struct {
	svc    ports.DriverLocationService
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewDriverLocationHTTPHandler wires an HTTP handler around the
// DriverLocationService.
func NewDriverLocationHTTPHandler(svc ports.DriverLocationService, logger *logger.Logger, auth *jwt.Manager) *DriverLocationHTTPHandler {
	return &DriverLocationHTTPHandler{svc: svc, logger: logger, auth: auth}
}

// RegisterRoutes mounts driver location endpoints on the provided mux.
func (handler *DriverLocationHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /drivers/location",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleUpdateLocation),
	)
	mux.HandleFunc("POST /drivers/availability",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleSetAvailability),
	)
	mux.HandleFunc("GET /drivers/nearby",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer)(handler.handleNearbyDrivers),
	)
}

type updateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (handler *DriverLocationHTTPHandler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	var req updateLocationRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := handler.svc.UpdateLocation(ctx, claims.Subject, req.Latitude, req.Longitude)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, result)
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (handler *DriverLocationHTTPHandler) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	claims := jwt.RequireClaims(r)

	var req setAvailabilityRequest
	if err := decodeStrict(w, r, &req); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := handler.svc.SetAvailability(ctx, claims.Subject, req.Available); err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, map[string]bool{"available": req.Available})
}

func (handler *DriverLocationHTTPHandler) handleNearbyDrivers(w http.ResponseWriter, r *http.Request) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	lng, err := queryFloat(r, "lng")
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}

	var radiusKm float64
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			httpapi.WriteError(handler.logger, w, errors.New("radius_km must be a positive number"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	drivers, err := handler.svc.FindNearbyDrivers(ctx, lat, lng, radiusKm)
	if err != nil {
		httpapi.WriteError(handler.logger, w, err)
		return
	}
	if drivers == nil {
		drivers = []ports.NearbyDriverResult{}
	}
	httpapi.WriteJSON(handler.logger, w, http.StatusOK, drivers)
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New(name + " query parameter is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}
	return v, nil
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
