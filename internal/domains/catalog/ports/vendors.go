package ports

import (
	"context"
	"errors"
)

var ErrVendorNotFound = errors.New("vendor not found")

// VendorDirectory resolves which user owns a vendor storefront.
type VendorDirectory interface {
	OwnerOf(ctx context.Context, vendorID string) (string, error)
}
