package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput   = errors.New("invalid vendor input")
	ErrForbidden      = errors.New("forbidden")
	ErrVendorNotFound = errors.New("vendor not found")
	// ErrAlreadyExists signals the caller already has a vendor profile.
	ErrAlreadyExists = errors.New("vendor profile already exists for this user")
	// ErrStoreNameTaken signals a store name collision with another vendor.
	ErrStoreNameTaken = errors.New("store name already taken")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingUser) ||
		errors.Is(err, domain.ErrEmptyStoreName) ||
		errors.Is(err, domain.ErrEmptyDescription) ||
		errors.Is(err, domain.ErrEmptyAddress) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return ErrVendorNotFound
	case errors.Is(err, ports.ErrDuplicateUser):
		return ErrAlreadyExists
	case errors.Is(err, ports.ErrDuplicateStoreName):
		return ErrStoreNameTaken
	}
	return err
}
