package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/driver"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/domain/wallet"
)

// UnitOfWork manages transactions across multiple repository operations.
// Every state-changing use case runs inside WithinTx; nested calls join
// the surrounding transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the methods for managing user data.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// NearbyDriver is a matchable driver with its distance from a query point.
type NearbyDriver struct {
	Driver     driver.Driver
	DistanceKm float64
}

// DriverRepository defines the methods for managing driver data.
// Drivers are keyed both by their own id and by the owning user's id;
// the user-id lookup is a direct index, not a scan.
type DriverRepository interface {
	Create(ctx context.Context, d *driver.Driver) error
	GetByID(ctx context.Context, id string) (*driver.Driver, error)
	GetByUserID(ctx context.Context, userID string) (*driver.Driver, error)
	SetAvailable(ctx context.Context, driverID string, available bool) error
	SetApproval(ctx context.Context, driverID string, approved, blocked bool) error
	UpdateLocation(ctx context.Context, driverID string, coord geo.Coordinate, at time.Time) error
	UpdateRating(ctx context.Context, driverID string, rating float64, count int) error
	// FindNearby returns matchable drivers within radiusKm of the point,
	// ordered by ascending great-circle distance.
	FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyDriver, error)
}

// VehicleTypeRepository defines the methods for managing fare tiers.
type VehicleTypeRepository interface {
	Create(ctx context.Context, vt *vehicle.VehicleType) error
	GetByID(ctx context.Context, id string) (*vehicle.VehicleType, error)
	List(ctx context.Context) ([]vehicle.VehicleType, error)
	UpdatePricing(ctx context.Context, id string, baseFare, pricePerKm decimal.Decimal) error
}

// OrderRepository defines the methods for managing order data.
type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
	// GetByIDForUpdate locks the order row for the duration of the
	// surrounding transaction so lifecycle checks and the following
	// Update apply as one atomic unit.
	GetByIDForUpdate(ctx context.Context, id string) (*order.Order, error)
	// Update persists status, driver assignment, final price and the
	// lifecycle timestamps of an already-loaded order.
	Update(ctx context.Context, o *order.Order) error
	ListPending(ctx context.Context, limit int) ([]order.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]order.Order, error)
	ListActiveByDriver(ctx context.Context, driverID string) ([]order.Order, error)
}

// WalletRepository defines the methods for managing wallets and their
// append-only transaction log.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (*wallet.Wallet, error)
	// GetByUserIDForUpdate locks the wallet row; callers lock multiple
	// wallets in ascending wallet-ID order to avoid deadlocks.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*wallet.Wallet, error)
	// CreateIfAbsent inserts the wallet unless the user already has one;
	// at most one wallet per user ever exists.
	CreateIfAbsent(ctx context.Context, w *wallet.Wallet) error
	UpdateBalance(ctx context.Context, w *wallet.Wallet) error
	AppendTransaction(ctx context.Context, tx *wallet.Transaction) error
	// ListTransactions returns the wallet's ledger entries, newest first.
	ListTransactions(ctx context.Context, walletID string, limit int) ([]wallet.Transaction, error)
}

// ReviewRepository defines the methods for managing review data.
type ReviewRepository interface {
	Create(ctx context.Context, r *review.Review) error
	GetByOrderID(ctx context.Context, orderID string) (*review.Review, error)
}

// GeoIndex is an optional fast path for nearby-driver lookups. Entries are
// advisory: results are always re-checked against the repository before use.
type GeoIndex interface {
	Upsert(ctx context.Context, driverID string, coord geo.Coordinate) error
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]string, error)
	Remove(ctx context.Context, driverID string) error
}

// Notifier sends best-effort messages to users. Failures are logged by the
// caller and never affect the primary operation.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, phone, message string) error
}
