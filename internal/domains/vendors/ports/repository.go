package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
)

var (
	ErrNotFound = errors.New("vendor not found")
	// ErrDuplicateUser is returned when the user already owns a vendor profile.
	ErrDuplicateUser = errors.New("vendor profile already exists for user")
	// ErrDuplicateStoreName is returned when another vendor uses the store name.
	ErrDuplicateStoreName = errors.New("store name already taken")
)

type Repository interface {
	Create(ctx context.Context, vendor *domain.Vendor) (*domain.Vendor, error)
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	GetByUser(ctx context.Context, userID string) (*domain.Vendor, error)
	List(ctx context.Context) ([]*domain.Vendor, error)
}
