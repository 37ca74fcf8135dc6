package geo

import (
	"errors"
	"math"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// NewCoordinate validates the ranges and returns a Coordinate.
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	coordinate := Coordinate{Latitude: latitude, Longitude: longitude}
	if err := coordinate.Validate(); err != nil {
		return Coordinate{}, err
	}
	return coordinate, nil
}

// Validate checks the lat/lng ranges.
func (coordinate Coordinate) Validate() error {
	if coordinate.Latitude < -90 || coordinate.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if coordinate.Longitude < -180 || coordinate.Longitude > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// EarthRadiusKM is the mean Earth radius used for all distance math.
const EarthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in
// kilometers, using the spherical law of cosines form so it matches the
// SQL the driver repository runs for nearby lookups.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	cosine := math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlng) + math.Sin(rlat1)*math.Sin(rlat2)

	// float error can push the argument a hair outside acos' domain
	if cosine > 1 {
		cosine = 1
	}
	if cosine < -1 {
		cosine = -1
	}
	return EarthRadiusKM * math.Acos(cosine)
}

// BoundingBox returns the lat/lng window that encloses a circle of
// radiusKm around the center. It is a cheap pre-filter for the exact
// haversine check; near the poles the longitude window degenerates to
// the full range.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	latDelta := radiusKm / 111.0 // ~111 km per degree of latitude
	minLat, maxLat = lat-latDelta, lat+latDelta

	cos := math.Cos(lat * math.Pi / 180)
	if cos < 0.01 {
		return minLat, maxLat, -180, 180
	}
	lngDelta := radiusKm / (111.0 * cos)
	return minLat, maxLat, lng - lngDelta, lng + lngDelta
}
