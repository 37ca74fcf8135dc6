package driver

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"delivery-dispatch/internal/domain/geo"
)

// Driver is the domain entity corresponding to the `drivers` table.
// It extends a User 1:1 and carries the operational flags the matcher
// cares about.
type Driver struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owning user (unique per driver)
	UserID string

	// Vehicle
	VehicleTypeID string
	PlateNumber   string

	// Gating flags
	Approved  bool
	Available bool
	Blocked   bool

	// Last reported position; nil until the first location update.
	Location *geo.Coordinate

	// Running rating aggregate
	Rating      float64
	RatingCount int
}

var (
	ErrUserIDRequired      = errors.New("user id is required")
	ErrVehicleTypeRequired = errors.New("vehicle type id is required")
	ErrNotApproved         = errors.New("driver is not approved")
	ErrBlocked             = errors.New("driver is blocked")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// NewDriver creates a driver profile pending admin approval.
func NewDriver(userID, vehicleTypeID, plateNumber string) (*Driver, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return nil, ErrUserIDRequired
	}
	if vehicleTypeID = strings.TrimSpace(vehicleTypeID); vehicleTypeID == "" {
		return nil, ErrVehicleTypeRequired
	}

	now := time.Now().UTC()
	return &Driver{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		UserID:        userID,
		VehicleTypeID: vehicleTypeID,
		PlateNumber:   strings.TrimSpace(plateNumber),
		Approved:      false,
		Available:     false,
		Blocked:       false,
	}, nil
}

// Matchable reports whether the driver may be offered work:
// available, approved, not blocked, and with a known location.
func (driver *Driver) Matchable() bool {
	return driver.Available && driver.Approved && !driver.Blocked && driver.Location != nil
}

// SetAvailable flips the availability flag. Going available requires an
// approved, unblocked driver; going unavailable is always allowed.
func (driver *Driver) SetAvailable(available bool) error {
	if available {
		if !driver.Approved {
			return ErrNotApproved
		}
		if driver.Blocked {
			return ErrBlocked
		}
	}
	driver.Available = available
	driver.touch()
	return nil
}

// Approve marks the driver as admin-approved.
func (driver *Driver) Approve() {
	driver.Approved = true
	driver.touch()
}

// Block bans the driver from matching and forces availability off.
func (driver *Driver) Block() {
	driver.Blocked = true
	driver.Available = false
	driver.touch()
}

// UpdateLocation overwrites the current position, last write wins.
func (driver *Driver) UpdateLocation(coordinate geo.Coordinate) error {
	if err := coordinate.Validate(); err != nil {
		return err
	}
	driver.Location = &coordinate
	driver.touch()
	return nil
}

// ApplyReview folds one review score into the running average:
// newAvg = (oldAvg*oldCount + rating) / (oldCount+1).
func (driver *Driver) ApplyReview(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	total := driver.Rating*float64(driver.RatingCount) + float64(rating)
	driver.RatingCount++
	driver.Rating = total / float64(driver.RatingCount)
	driver.touch()
	return nil
}

func (driver *Driver) touch() {
	driver.UpdatedAt = time.Now().UTC()
}
