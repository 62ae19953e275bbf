package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrEmptyDesc       = errors.New("product description is required")
	ErrMissingVendor   = errors.New("vendor id is required")
	ErrNegativePrice   = errors.New("price must be greater or equal to zero")
	ErrPriceScale      = errors.New("price must have at most two decimal places")
	ErrNegativeStock   = errors.New("stock quantity must be greater or equal to zero")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Image references a stored asset by its public url and store-specific id.
type Image struct {
	URL string
	ID  string
}

// IsZero reports whether no image is attached.
func (i Image) IsZero() bool {
	return i.URL == "" && i.ID == ""
}

// Product is a sellable item listed by one vendor.
type Product struct {
	ID            string
	VendorID      string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Image         Image
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct validates the invariants and builds a new Product.
func NewProduct(id, vendorID, name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if strings.TrimSpace(vendorID) == "" {
		return nil, ErrMissingVendor
	}
	p := &Product{ID: id, VendorID: vendorID}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Describe(description); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if err := p.SetStock(stock); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename stores the trimmed name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

func (p *Product) Describe(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDesc
	}
	p.Description = description
	return nil
}

// PriceScale is the number of decimal places a price may carry.
const PriceScale = 2

// Reprice accepts whole cents only so stored and quoted prices stay identical.
func (p *Product) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !price.Equal(price.Truncate(PriceScale)) {
		return ErrPriceScale
	}
	p.Price = price
	return nil
}

func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	p.StockQuantity = stock
	return nil
}

// AttachImage replaces the image reference and returns the previous one.
func (p *Product) AttachImage(img Image) Image {
	previous := p.Image
	p.Image = img
	return previous
}

// Decrement removes quantity units when enough remain.
func (p *Product) Decrement(quantity int) bool {
	if quantity <= 0 || p.StockQuantity < quantity {
		return false
	}
	p.StockQuantity -= quantity
	return true
}

// Increment returns quantity units to stock.
func (p *Product) Increment(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.StockQuantity += quantity
	return nil
}

// Clone returns a copy safe to hand across adapter boundaries.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
