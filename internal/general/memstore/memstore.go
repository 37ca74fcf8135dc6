package memstore

import (
	"context"
	"errors"
	"sync"

	"delivery-dispatch/internal/domain/driver"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/domain/wallet"
)

// Store is an in-memory implementation of the repository ports, used by
// service tests. Its unit of work takes a store-wide lock and snapshots
// all state, so a failing transaction rolls back completely and
// concurrent transactions serialize the same way row locks do in
// Postgres.
type Store struct {
	mu sync.Mutex

	users        map[string]user.User
	drivers      map[string]driver.Driver
	vehicleTypes map[string]vehicle.VehicleType
	orders       map[string]order.Order
	wallets      map[string]wallet.Wallet // keyed by wallet id
	walletByUser map[string]string
	walletTxs    []wallet.Transaction
	reviews      map[string]review.Review // keyed by order id
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[string]user.User),
		drivers:      make(map[string]driver.Driver),
		vehicleTypes: make(map[string]vehicle.VehicleType),
		orders:       make(map[string]order.Order),
		wallets:      make(map[string]wallet.Wallet),
		walletByUser: make(map[string]string),
		reviews:      make(map[string]review.Review),
	}
}

type ctxKey string

const txKey ctxKey = "memstoreTx"

var errNoTx = errors.New("memstore: no transaction in context")

// WithinTx runs fn under the store lock. Nested calls join the
// surrounding transaction; an error from fn restores the pre-transaction
// snapshot.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(context.WithValue(ctx, txKey, true))
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	on, _ := ctx.Value(txKey).(bool)
	return on
}

type snapshotState struct {
	users        map[string]user.User
	drivers      map[string]driver.Driver
	vehicleTypes map[string]vehicle.VehicleType
	orders       map[string]order.Order
	wallets      map[string]wallet.Wallet
	walletByUser map[string]string
	walletTxs    []wallet.Transaction
	reviews      map[string]review.Review
}

func (s *Store) snapshot() snapshotState {
	snap := snapshotState{
		users:        make(map[string]user.User, len(s.users)),
		drivers:      make(map[string]driver.Driver, len(s.drivers)),
		vehicleTypes: make(map[string]vehicle.VehicleType, len(s.vehicleTypes)),
		orders:       make(map[string]order.Order, len(s.orders)),
		wallets:      make(map[string]wallet.Wallet, len(s.wallets)),
		walletByUser: make(map[string]string, len(s.walletByUser)),
		walletTxs:    append([]wallet.Transaction(nil), s.walletTxs...),
		reviews:      make(map[string]review.Review, len(s.reviews)),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.drivers {
		snap.drivers[k] = cloneDriver(v)
	}
	for k, v := range s.vehicleTypes {
		snap.vehicleTypes[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.wallets {
		snap.wallets[k] = v
	}
	for k, v := range s.walletByUser {
		snap.walletByUser[k] = v
	}
	for k, v := range s.reviews {
		snap.reviews[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshotState) {
	s.users = snap.users
	s.drivers = snap.drivers
	s.vehicleTypes = snap.vehicleTypes
	s.orders = snap.orders
	s.wallets = snap.wallets
	s.walletByUser = snap.walletByUser
	s.walletTxs = snap.walletTxs
	s.reviews = snap.reviews
}

// cloneDriver copies the pointer-typed fields so snapshot state cannot be
// mutated through the live maps.
func cloneDriver(d driver.Driver) driver.Driver {
	if d.Location != nil {
		loc := *d.Location
		d.Location = &loc
	}
	return d
}

func cloneOrder(o order.Order) order.Order {
	if o.DriverID != nil {
		id := *o.DriverID
		o.DriverID = &id
	}
	if o.VehicleTypeID != nil {
		id := *o.VehicleTypeID
		o.VehicleTypeID = &id
	}
	if o.FinalPrice != nil {
		p := *o.FinalPrice
		o.FinalPrice = &p
	}
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		o.CompletedAt = &t
	}
	return o
}

func cloneCoordinate(c *geo.Coordinate) *geo.Coordinate {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
