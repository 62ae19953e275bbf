package types

import "github.com/shopspring/decimal"

// CreateProductInput captures a vendor's request to list a new product.
type CreateProductInput struct {
	VendorID      string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Image         *ImageUpload
}

// UpdateProductInput carries a partial change; nil fields keep their current value.
type UpdateProductInput struct {
	ID            string
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	Image         *ImageUpload
}

// ProductIdentifier addresses a single product.
type ProductIdentifier struct {
	ID string
}
