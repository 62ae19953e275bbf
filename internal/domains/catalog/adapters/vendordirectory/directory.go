package vendordirectory

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	vendorports "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
)

var _ catalogports.VendorDirectory = (*Directory)(nil)

// Directory answers catalog ownership checks from the vendors repository.
type Directory struct {
	vendors vendorports.Repository
}

func New(vendors vendorports.Repository) *Directory {
	return &Directory{vendors: vendors}
}

func (d *Directory) OwnerOf(ctx context.Context, vendorID string) (string, error) {
	vendor, err := d.vendors.GetByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, vendorports.ErrNotFound) {
			return "", catalogports.ErrVendorNotFound
		}
		return "", err
	}
	return vendor.UserID, nil
}
