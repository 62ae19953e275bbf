package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// CreateVendorInput is the storefront profile submitted by a vendor user.
type CreateVendorInput struct {
	StoreName   string
	Description string
	Address     string
}

// Service defines the vendor use cases exposed to adapters.
type Service interface {
	CreateVendor(ctx context.Context, caller identity.Identity, input CreateVendorInput) (*domain.Vendor, error)
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
	ListVendors(ctx context.Context) ([]*domain.Vendor, error)
}
