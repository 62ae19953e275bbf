package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingUser      = errors.New("vendor user id is required")
	ErrEmptyStoreName   = errors.New("store name is required")
	ErrEmptyDescription = errors.New("store description is required")
	ErrEmptyAddress     = errors.New("store address is required")
)

// Vendor is the storefront profile owned by exactly one vendor user.
type Vendor struct {
	ID          string
	UserID      string
	StoreName   string
	Description string
	Address     string
	CreatedAt   time.Time
}

// NewVendor validates and builds a Vendor. The store name is trimmed.
func NewVendor(id, userID, storeName, description, address string, createdAt time.Time) (*Vendor, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, ErrEmptyStoreName
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}
	return &Vendor{
		ID:          id,
		UserID:      userID,
		StoreName:   storeName,
		Description: description,
		Address:     address,
		CreatedAt:   createdAt,
	}, nil
}
