package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a reservation names an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when the conditional decrement affected nothing.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Reservation is the outcome of a successful stock decrement.
type Reservation struct {
	ProductID string
	Quantity  int
	// UnitPrice is the catalog price at the instant of the decrement.
	UnitPrice decimal.Decimal
	// VendorID owns the product at the instant of the decrement.
	VendorID  string
	Remaining int
}

// StockShortage describes a rejected reservation. It matches ErrInsufficientStock.
type StockShortage struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockShortage) Error() string {
	return "insufficient stock for product " + e.ProductID
}

func (e *StockShortage) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Inventory reserves and releases catalog stock for the order engine.
type Inventory interface {
	// Reserve atomically decrements stock when at least quantity units remain.
	Reserve(ctx context.Context, productID string, quantity int) (Reservation, error)
	// Release gives previously reserved units back.
	Release(ctx context.Context, productID string, quantity int) error
}

// VendorCatalog answers the ownership question needed for vendor order views.
type VendorCatalog interface {
	OwnerOf(ctx context.Context, vendorID string) (string, error)
}

// ErrVendorNotFound is returned by VendorCatalog for unknown vendors.
var ErrVendorNotFound = errors.New("vendor not found")
