// Package jwt signs and verifies HS256 access tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

var ErrMissingSecret = errors.New("jwt signing secret is required")

type tokenClaims struct {
	Role string `json:"role"`
	gojwt.RegisteredClaims
}

// Issuer implements ports.TokenIssuer with a shared HMAC secret.
type Issuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type Option func(*Issuer)

// WithIssuer sets the iss claim written and required on parse.
func WithIssuer(iss string) Option {
	return func(i *Issuer) {
		i.issuer = iss
	}
}

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	i := &Issuer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

func (i *Issuer) Issue(claims ports.Claims) (string, error) {
	tc := tokenClaims{
		Role: string(claims.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   claims.UserID,
			ID:        claims.SessionID,
			Issuer:    i.issuer,
			IssuedAt:  gojwt.NewNumericDate(i.now()),
			ExpiresAt: gojwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, tc).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Parse(token string) (ports.Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(i.issuer))
	}
	var tc tokenClaims
	_, err := gojwt.ParseWithClaims(token, &tc, func(*gojwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return ports.Claims{}, fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
	}
	return ports.Claims{
		UserID:    tc.Subject,
		Role:      identity.Role(tc.Role),
		SessionID: tc.ID,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}

var _ ports.TokenIssuer = (*Issuer)(nil)
