package catalogbridge

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	vendorports "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
)

var (
	_ storeports.Inventory     = (*Inventory)(nil)
	_ storeports.VendorCatalog = (*VendorCatalog)(nil)
)

// Inventory reserves order stock through the catalog repository's conditional decrement.
type Inventory struct {
	products catalogports.Repository
}

func NewInventory(products catalogports.Repository) *Inventory {
	return &Inventory{products: products}
}

func (i *Inventory) Reserve(ctx context.Context, productID string, quantity int) (storeports.Reservation, error) {
	product, err := i.products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return storeports.Reservation{}, translate(productID, quantity, err)
	}
	return storeports.Reservation{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		VendorID:  product.VendorID,
		Remaining: product.StockQuantity,
	}, nil
}

func (i *Inventory) Release(ctx context.Context, productID string, quantity int) error {
	if _, err := i.products.IncrementStock(ctx, productID, quantity); err != nil {
		return translate(productID, quantity, err)
	}
	return nil
}

func translate(productID string, quantity int, err error) error {
	var shortage *catalogports.StockShortage
	switch {
	case errors.As(err, &shortage):
		return &storeports.StockShortage{ProductID: shortage.ProductID, Requested: shortage.Requested, Available: shortage.Available}
	case errors.Is(err, catalogports.ErrInsufficientStock):
		return &storeports.StockShortage{ProductID: productID, Requested: quantity}
	case errors.Is(err, catalogports.ErrNotFound):
		return storeports.ErrProductNotFound
	default:
		return err
	}
}

// VendorCatalog resolves vendor ownership for vendor order views.
type VendorCatalog struct {
	vendors vendorports.Repository
}

func NewVendorCatalog(vendors vendorports.Repository) *VendorCatalog {
	return &VendorCatalog{vendors: vendors}
}

func (c *VendorCatalog) OwnerOf(ctx context.Context, vendorID string) (string, error) {
	vendor, err := c.vendors.GetByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, vendorports.ErrNotFound) {
			return "", storeports.ErrVendorNotFound
		}
		return "", err
	}
	return vendor.UserID, nil
}
