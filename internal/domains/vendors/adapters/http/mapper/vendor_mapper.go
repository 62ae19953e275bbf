package mapper

import (
	"time"

	vendordomain "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	vendorports "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
)

// CreateVendor is the storefront creation payload.
type CreateVendor struct {
	StoreName   string `json:"storeName"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

// Vendor is the HTTP representation of a storefront.
type Vendor struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	StoreName   string    `json:"storeName"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToCreateInput(payload CreateVendor) vendorports.CreateVendorInput {
	return vendorports.CreateVendorInput{
		StoreName:   payload.StoreName,
		Description: payload.Description,
		Address:     payload.Address,
	}
}

// FromDomainVendor converts a domain vendor to its transport representation.
func FromDomainVendor(vendor *vendordomain.Vendor) Vendor {
	if vendor == nil {
		return Vendor{}
	}
	return Vendor{
		ID:          vendor.ID,
		UserID:      vendor.UserID,
		StoreName:   vendor.StoreName,
		Description: vendor.Description,
		Address:     vendor.Address,
		CreatedAt:   vendor.CreatedAt,
	}
}

func FromDomainVendors(vendors []*vendordomain.Vendor) []Vendor {
	result := make([]Vendor, 0, len(vendors))
	for _, vendor := range vendors {
		result = append(result, FromDomainVendor(vendor))
	}
	return result
}
