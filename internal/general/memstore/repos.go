package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/driver"
	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/geo"
	"delivery-dispatch/internal/domain/order"
	"delivery-dispatch/internal/domain/review"
	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/domain/vehicle"
	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/ports"
)

// Users returns the in-memory UserRepository.
func (s *Store) Users() ports.UserRepository { return (*userRepo)(s) }

// Drivers returns the in-memory DriverRepository.
func (s *Store) Drivers() ports.DriverRepository { return (*driverRepo)(s) }

// VehicleTypes returns the in-memory VehicleTypeRepository.
func (s *Store) VehicleTypes() ports.VehicleTypeRepository { return (*vehicleTypeRepo)(s) }

// Orders returns the in-memory OrderRepository.
func (s *Store) Orders() ports.OrderRepository { return (*orderRepo)(s) }

// Wallets returns the in-memory WalletRepository.
func (s *Store) Wallets() ports.WalletRepository { return (*walletRepo)(s) }

// Reviews returns the in-memory ReviewRepository.
func (s *Store) Reviews() ports.ReviewRepository { return (*reviewRepo)(s) }

type userRepo Store

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	if !inTx(ctx) {
		return errNoTx
	}
	r.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	u, ok := r.users[id]
	if !ok {
		return nil, fault.NotFound("user", id)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, fault.NotFound("user", email)
}

type driverRepo Store

func (r *driverRepo) Create(ctx context.Context, d *driver.Driver) error {
	if !inTx(ctx) {
		return errNoTx
	}
	r.drivers[d.ID] = cloneDriver(*d)
	return nil
}

func (r *driverRepo) GetByID(ctx context.Context, id string) (*driver.Driver, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	d, ok := r.drivers[id]
	if !ok {
		return nil, fault.NotFound("driver", id)
	}
	out := cloneDriver(d)
	return &out, nil
}

func (r *driverRepo) GetByUserID(ctx context.Context, userID string) (*driver.Driver, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	for _, d := range r.drivers {
		if d.UserID == userID {
			out := cloneDriver(d)
			return &out, nil
		}
	}
	return nil, fault.NotFound("driver", userID)
}

func (r *driverRepo) SetAvailable(ctx context.Context, driverID string, available bool) error {
	if !inTx(ctx) {
		return errNoTx
	}
	d, ok := r.drivers[driverID]
	if !ok {
		return fault.NotFound("driver", driverID)
	}
	d.Available = available
	d.UpdatedAt = time.Now().UTC()
	r.drivers[driverID] = d
	return nil
}

func (r *driverRepo) SetApproval(ctx context.Context, driverID string, approved, blocked bool) error {
	if !inTx(ctx) {
		return errNoTx
	}
	d, ok := r.drivers[driverID]
	if !ok {
		return fault.NotFound("driver", driverID)
	}
	d.Approved = approved
	d.Blocked = blocked
	if blocked {
		d.Available = false
	}
	d.UpdatedAt = time.Now().UTC()
	r.drivers[driverID] = d
	return nil
}

func (r *driverRepo) UpdateLocation(ctx context.Context, driverID string, coord geo.Coordinate, at time.Time) error {
	if !inTx(ctx) {
		return errNoTx
	}
	d, ok := r.drivers[driverID]
	if !ok {
		return fault.NotFound("driver", driverID)
	}
	d.Location = cloneCoordinate(&coord)
	d.UpdatedAt = at
	r.drivers[driverID] = d
	return nil
}

func (r *driverRepo) UpdateRating(ctx context.Context, driverID string, rating float64, count int) error {
	if !inTx(ctx) {
		return errNoTx
	}
	d, ok := r.drivers[driverID]
	if !ok {
		return fault.NotFound("driver", driverID)
	}
	d.Rating = rating
	d.RatingCount = count
	d.UpdatedAt = time.Now().UTC()
	r.drivers[driverID] = d
	return nil
}

func (r *driverRepo) FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]ports.NearbyDriver, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	var nearby []ports.NearbyDriver
	for _, d := range r.drivers {
		if !d.Matchable() {
			continue
		}
		dist := geo.HaversineKM(lat, lng, d.Location.Latitude, d.Location.Longitude)
		if dist > radiusKm {
			continue
		}
		nearby = append(nearby, ports.NearbyDriver{Driver: cloneDriver(d), DistanceKm: dist})
	}
	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].Driver.Rating > nearby[j].Driver.Rating
	})
	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

type vehicleTypeRepo Store

func (r *vehicleTypeRepo) Create(ctx context.Context, vt *vehicle.VehicleType) error {
	if !inTx(ctx) {
		return errNoTx
	}
	r.vehicleTypes[vt.ID] = *vt
	return nil
}

func (r *vehicleTypeRepo) GetByID(ctx context.Context, id string) (*vehicle.VehicleType, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	vt, ok := r.vehicleTypes[id]
	if !ok {
		return nil, fault.NotFound("vehicle type", id)
	}
	return &vt, nil
}

func (r *vehicleTypeRepo) List(ctx context.Context) ([]vehicle.VehicleType, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	types := make([]vehicle.VehicleType, 0, len(r.vehicleTypes))
	for _, vt := range r.vehicleTypes {
		types = append(types, vt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

func (r *vehicleTypeRepo) UpdatePricing(ctx context.Context, id string, baseFare, pricePerKm decimal.Decimal) error {
	if !inTx(ctx) {
		return errNoTx
	}
	vt, ok := r.vehicleTypes[id]
	if !ok {
		return fault.NotFound("vehicle type", id)
	}
	vt.BaseFare = baseFare
	vt.PricePerKm = pricePerKm
	vt.UpdatedAt = time.Now().UTC()
	r.vehicleTypes[id] = vt
	return nil
}

type orderRepo Store

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	if !inTx(ctx) {
		return errNoTx
	}
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, fault.NotFound("order", id)
	}
	out := cloneOrder(o)
	return &out, nil
}

// GetByIDForUpdate is identical to GetByID here: the store-wide lock the
// unit of work holds already serializes writers.
func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(ctx context.Context, o *order.Order) error {
	if !inTx(ctx) {
		return errNoTx
	}
	if _, ok := r.orders[o.ID]; !ok {
		return fault.NotFound("order", o.ID)
	}
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *orderRepo) ListPending(ctx context.Context, limit int) ([]order.Order, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	var out []order.Order
	for _, o := range r.orders {
		if o.Status == order.StatusPending {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]order.Order, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	var out []order.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *orderRepo) ListActiveByDriver(ctx context.Context, driverID string) ([]order.Order, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	var out []order.Order
	for _, o := range r.orders {
		if o.DriverID == nil || *o.DriverID != driverID {
			continue
		}
		switch o.Status {
		case order.StatusAccepted, order.StatusDriverArrived, order.StatusInTransit:
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type walletRepo Store

func (r *walletRepo) GetByUserID(ctx context.Context, userID string) (*wallet.Wallet, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	id, ok := r.walletByUser[userID]
	if !ok {
		return nil, fault.NotFound("wallet", userID)
	}
	w := r.wallets[id]
	return &w, nil
}

// GetByUserIDForUpdate is identical to GetByUserID under the store-wide
// lock.
func (r *walletRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*wallet.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *walletRepo) CreateIfAbsent(ctx context.Context, w *wallet.Wallet) error {
	if !inTx(ctx) {
		return errNoTx
	}
	if _, ok := r.walletByUser[w.UserID]; ok {
		return nil
	}
	r.wallets[w.ID] = *w
	r.walletByUser[w.UserID] = w.ID
	return nil
}

func (r *walletRepo) UpdateBalance(ctx context.Context, w *wallet.Wallet) error {
	if !inTx(ctx) {
		return errNoTx
	}
	if _, ok := r.wallets[w.ID]; !ok {
		return fault.NotFound("wallet", w.ID)
	}
	r.wallets[w.ID] = *w
	return nil
}

func (r *walletRepo) AppendTransaction(ctx context.Context, tx *wallet.Transaction) error {
	if !inTx(ctx) {
		return errNoTx
	}
	r.walletTxs = append(r.walletTxs, *tx)
	return nil
}

func (r *walletRepo) ListTransactions(ctx context.Context, walletID string, limit int) ([]wallet.Transaction, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	var out []wallet.Transaction
	for i := len(r.walletTxs) - 1; i >= 0; i-- {
		if r.walletTxs[i].WalletID != walletID {
			continue
		}
		out = append(out, r.walletTxs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type reviewRepo Store

func (r *reviewRepo) Create(ctx context.Context, rv *review.Review) error {
	if !inTx(ctx) {
		return errNoTx
	}
	if _, ok := r.reviews[rv.OrderID]; ok {
		return review.ErrAlreadyReviewed
	}
	r.reviews[rv.OrderID] = *rv
	return nil
}

func (r *reviewRepo) GetByOrderID(ctx context.Context, orderID string) (*review.Review, error) {
	if !inTx(ctx) {
		return nil, errNoTx
	}
	rv, ok := r.reviews[orderID]
	if !ok {
		return nil, fault.NotFound("review", orderID)
	}
	return &rv, nil
}
