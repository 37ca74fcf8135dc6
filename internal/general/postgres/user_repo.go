package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/user"
	"delivery-dispatch/internal/ports"
)

// UserRepo persists users using pgx and plain SQL.
type UserRepo struct{}

// NewUserRepo constructs a new UserRepo.
func NewUserRepo() ports.UserRepository {
	return &UserRepo{}
}

// Create inserts a new user row.
func (repo *UserRepo) Create(ctx context.Context, u *user.User) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Name, u.Email, u.Phone, u.Role.String(), u.CreatedAt, u.UpdatedAt)
	return err
}

// GetByID returns one user by id.
func (repo *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return repo.getBy(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns one user by email.
func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.getBy(ctx, `WHERE email = $1`, email)
}

func (repo *UserRepo) getBy(ctx context.Context, where, arg string) (*user.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out user.User
	var role string
	err = tx.QueryRow(ctx, `
		SELECT id, name, email, phone, role, created_at, updated_at
		FROM users
		`+where,
		arg,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &role, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("user", arg)
		}
		return nil, err
	}
	out.Role = user.Role(role)

	return &out, nil
}
