package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a conditional decrement matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockShortage reports how many units were available when a decrement was refused.
type StockShortage struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockShortage) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *StockShortage) Is(target error) bool {
	return target == ErrInsufficientStock
}

type Repository interface {
	// Save inserts a product or updates its listing fields. Stock of an existing row is left alone
	// so a listing edit cannot overwrite concurrent reservations.
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// SetStock overwrites the stock count of an existing product.
	SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*domain.Product, error)
	// DecrementStock subtracts quantity only while stock >= quantity, as one atomic step.
	// The returned product carries the remaining stock and the price at that instant.
	DecrementStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	IncrementStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
}
