package jwt

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"delivery-dispatch/internal/domain/user"
)

// Claims defines our canonical JWT claims payload.
type Claims struct {
	Role user.Role `json:"role"` // user role for RBAC (CUSTOMER/DRIVER/ADMIN)
	jwtlib.RegisteredClaims
}

var _ jwtlib.Claims = (*Claims)(nil)

// NewUserClaims constructs end-user claims (customer/driver/admin).
func NewUserClaims(userID string, role user.Role, ttl time.Duration) *Claims {
	now := time.Now().UTC()
	return &Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
}
