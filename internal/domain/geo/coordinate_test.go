package geo

import (
	"errors"
	"math"
	"testing"
)

func TestNewCoordinateValidation(t *testing.T) {
	tests := []struct {
		lat, lng float64
		wantErr  error
	}{
		{51.1283, 71.4305, nil},
		{-90, 180, nil},
		{90.5, 0, ErrInvalidLatitude},
		{-91, 0, ErrInvalidLatitude},
		{0, 180.1, ErrInvalidLongitude},
		{0, -200, ErrInvalidLongitude},
	}
	for _, tt := range tests {
		_, err := NewCoordinate(tt.lat, tt.lng)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("(%v, %v): got %v, want %v", tt.lat, tt.lng, err, tt.wantErr)
		}
	}
}

func TestHaversineKM(t *testing.T) {
	// identical points, including the acos domain edge
	if d := HaversineKM(51.1, 71.4, 51.1, 71.4); d != 0 {
		t.Fatalf("zero distance = %v", d)
	}

	// Astana center to the airport, roughly 13 km
	d := HaversineKM(51.1283, 71.4305, 51.0119, 71.4669)
	if d < 12 || d > 14 {
		t.Fatalf("Astana-airport distance = %v km", d)
	}

	// antipodal points are half the Earth's circumference apart
	d = HaversineKM(0, 0, 0, 180)
	if want := math.Pi * EarthRadiusKM; math.Abs(d-want) > 1 {
		t.Fatalf("antipodal distance = %v, want ~%v", d, want)
	}

	// symmetry
	a := HaversineKM(51.1, 71.4, 43.2, 76.9)
	b := HaversineKM(43.2, 76.9, 51.1, 71.4)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("not symmetric: %v vs %v", a, b)
	}
}

func TestBoundingBoxEnclosesRadius(t *testing.T) {
	lat, lng, radius := 51.1283, 71.4305, 5.0
	minLat, maxLat, minLng, maxLng := BoundingBox(lat, lng, radius)

	if minLat >= lat || maxLat <= lat || minLng >= lng || maxLng <= lng {
		t.Fatalf("box [%v,%v]x[%v,%v] does not contain center", minLat, maxLat, minLng, maxLng)
	}

	// a point just inside the radius must fall inside the box
	edgeLat := lat + radius/111.0*0.99
	if edgeLat > maxLat {
		t.Fatalf("point at radius edge outside box: %v > %v", edgeLat, maxLat)
	}
}

func TestBoundingBoxNearPoles(t *testing.T) {
	_, _, minLng, maxLng := BoundingBox(89.9, 10, 5)
	if minLng != -180 || maxLng != 180 {
		t.Fatalf("polar box lng = [%v, %v], want full range", minLng, maxLng)
	}
}
