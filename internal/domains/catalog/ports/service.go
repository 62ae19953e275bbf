package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Service defines the catalog use cases exposed to adapters.
type Service interface {
	CreateProduct(ctx context.Context, caller identity.Identity, input catalogtypes.CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller identity.Identity, input catalogtypes.UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller identity.Identity, input catalogtypes.ProductIdentifier) error
	GetProduct(ctx context.Context, input catalogtypes.ProductIdentifier) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListVendorProducts(ctx context.Context, vendorID string) ([]*domain.Product, error)
}
