package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders together with their line items.
type Repository interface {
	// Create stores the order and all line items as one unit.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error)
	// ListByVendor returns orders with at least one line sold by the vendor, newest first.
	ListByVendor(ctx context.Context, vendorID string) ([]*domain.Order, error)
}
