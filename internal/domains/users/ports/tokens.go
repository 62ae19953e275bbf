package ports

import (
	"errors"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// ErrInvalidToken covers malformed, tampered and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the fields carried inside a signed access token.
type Claims struct {
	UserID    string
	Role      identity.Role
	SessionID string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	Parse(token string) (Claims, error)
}
