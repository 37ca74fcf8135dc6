package service

import (
	"context"
	"encoding/json"
	"time"

	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/general/contracts"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/ports"
)

// UpdateLocation stores the driver's reported position, last write wins.
// The geo index and the location fanout are advisory: their failures are
// logged and do not fail the update.
func (service *driverLocationService) UpdateLocation(ctx context.Context, driverUserID string, lat, lng float64) (ports.UpdateLocationResult, error) {
	coord, err := geo.NewCoordinate(lat, lng)
	if err != nil {
		return ports.UpdateLocationResult{}, err
	}

	var driverID string
	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		d, err := service.driverRepo.GetByUserID(ctx, driverUserID)
		if err != nil {
			return err
		}
		if err := d.UpdateLocation(coord); err != nil {
			return err
		}
		driverID = d.ID
		return service.driverRepo.UpdateLocation(ctx, d.ID, coord, time.Now().UTC())
	})
	if err != nil {
		return ports.UpdateLocationResult{}, err
	}

	if service.geoIndex != nil {
		if err := service.geoIndex.Upsert(ctx, driverID, coord); err != nil {
			service.logger.Warn("geo index upsert failed",
				logger.String("driver_id", driverID), logger.Err(err))
		}
	}
	service.publishLocation(driverID, coord)

	return ports.UpdateLocationResult{
		DriverID:  driverID,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
	}, nil
}

func (service *driverLocationService) publishLocation(driverID string, coord geo.Coordinate) {
	if service.pub == nil {
		return
	}

	msg := contracts.LocationUpdateMessage{
		DriverID:  driverID,
		Location:  contracts.GeoPoint{Lat: coord.Latitude, Lng: coord.Longitude},
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: "dispatch-service",
			SentAt:   time.Now().UTC(),
		},
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := service.pub.Publish(contracts.ExchangeLocationFanout, "", body); err != nil {
		service.logger.Warn("location publish failed",
			logger.String("driver_id", driverID), logger.Err(err))
	}
}
