package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrForbidden signals the caller's role or ownership does not allow the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrProductNotFound is matched by ProductNotFoundError.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is matched by InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderNotFound covers both unknown orders and orders owned by someone else.
	ErrOrderNotFound = errors.New("order not found")
	// ErrVendorNotFound signals an unknown vendor in vendor order views.
	ErrVendorNotFound = errors.New("vendor not found")
	// ErrIdempotencyConflict signals a reused Idempotency-Key with a different payload.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")
)

// InsufficientStockError names the product whose stock could not cover a line.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product: %s", e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductNotFoundError names the product id that does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingBuyer) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrMissingProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrNotFound) {
		return ErrOrderNotFound
	}
	if errors.Is(err, ports.ErrVendorNotFound) {
		return ErrVendorNotFound
	}
	if errors.Is(err, ports.ErrIdempotencyConflict) {
		return ErrIdempotencyConflict
	}
	return err
}

// reservationError translates an Inventory failure for one requested line.
func reservationError(item domain.RequestedItem, err error) error {
	var shortage *ports.StockShortage
	switch {
	case errors.As(err, &shortage):
		return &InsufficientStockError{
			ProductID: shortage.ProductID,
			Requested: shortage.Requested,
			Available: shortage.Available,
		}
	case errors.Is(err, ports.ErrInsufficientStock):
		return &InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity}
	case errors.Is(err, ports.ErrProductNotFound):
		return &ProductNotFoundError{ProductID: item.ProductID}
	default:
		return fmt.Errorf("reserve product %s: %w", item.ProductID, err)
	}
}
