package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the domain entity corresponding to the `users` table.
// Identity and role are immutable after creation; only profile
// fields may change.
type User struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Email     string
	Phone     string
	Role      Role
}

var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrBadTimestamps = errors.New("updated_at cannot be before created_at")
)

// NewUser constructs a new User entity with a generated UUID.
func NewUser(name, email, phone string, role Role) (*User, error) {
	now := time.Now().UTC()
	usr := &User{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		Role:      role,
	}
	if err := usr.Validate(); err != nil {
		return nil, err
	}

	return usr, nil
}

// Validate checks invariants of the User entity.
func (user *User) Validate() error {
	if user.Name == "" {
		return ErrNameRequired
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return ErrInvalidEmail
	}
	if !user.Role.Valid() {
		return ErrInvalidRole
	}
	if !user.CreatedAt.IsZero() && !user.UpdatedAt.IsZero() && user.UpdatedAt.Before(user.CreatedAt) {
		return ErrBadTimestamps
	}
	return nil
}

// UpdateProfile changes the mutable profile fields. Updates UpdatedAt timestamp.
func (user *User) UpdateProfile(name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	user.Name = name
	user.Phone = strings.TrimSpace(phone)
	user.touch()
	return nil
}

func (user *User) touch() {
	user.UpdatedAt = time.Now().UTC()
}
