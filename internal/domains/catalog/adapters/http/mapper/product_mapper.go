package mapper

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
)

var (
	errMissingVendor = errors.New("vendorId is required")
	errMissingPrice  = errors.New("price is required")
	errMissingStock  = errors.New("stockQuantity is required")
)

// MutationProduct captures inbound create/update payloads while preserving field presence.
type MutationProduct struct {
	VendorID      string           `json:"vendorId,omitempty" form:"vendorId"`
	Name          *string          `json:"name,omitempty" form:"name"`
	Description   *string          `json:"description,omitempty" form:"description"`
	Price         *decimal.Decimal `json:"price,omitempty" form:"-"`
	StockQuantity *int             `json:"stockQuantity,omitempty" form:"stockQuantity"`
}

// Image is the hosted asset attached to a product.
type Image struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// Product is the HTTP representation of a catalog entry.
type Product struct {
	ID            string    `json:"id"`
	VendorID      string    `json:"vendorId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Image         *Image    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToCreateInput requires every field a new product needs; domain rules are checked by the service.
func ToCreateInput(payload MutationProduct, image *catalogtypes.ImageUpload) (catalogtypes.CreateProductInput, error) {
	if payload.VendorID == "" {
		return catalogtypes.CreateProductInput{}, errMissingVendor
	}
	if payload.Price == nil {
		return catalogtypes.CreateProductInput{}, errMissingPrice
	}
	if payload.StockQuantity == nil {
		return catalogtypes.CreateProductInput{}, errMissingStock
	}
	return catalogtypes.CreateProductInput{
		VendorID:      payload.VendorID,
		Name:          deref(payload.Name),
		Description:   deref(payload.Description),
		Price:         *payload.Price,
		StockQuantity: *payload.StockQuantity,
		Image:         image,
	}, nil
}

// ToUpdateInput keeps absent fields nil so they are left untouched.
func ToUpdateInput(id string, payload MutationProduct, image *catalogtypes.ImageUpload) catalogtypes.UpdateProductInput {
	return catalogtypes.UpdateProductInput{
		ID:            id,
		Name:          payload.Name,
		Description:   payload.Description,
		Price:         payload.Price,
		StockQuantity: payload.StockQuantity,
		Image:         image,
	}
}

// FromDomainProduct converts a domain product to its transport representation.
func FromDomainProduct(product *domain.Product) Product {
	if product == nil {
		return Product{}
	}
	out := Product{
		ID:            product.ID,
		VendorID:      product.VendorID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price.StringFixed(2),
		StockQuantity: product.StockQuantity,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if !product.Image.IsZero() {
		out.Image = &Image{URL: product.Image.URL, ID: product.Image.ID}
	}
	return out
}

func FromDomainProducts(products []*domain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, FromDomainProduct(product))
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
