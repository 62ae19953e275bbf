package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Service orchestrates vendor profile use cases.
type Service struct {
	repo  ports.Repository
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateVendor registers the caller's storefront. Only vendor users may own one, and only one each.
func (s *Service) CreateVendor(ctx context.Context, caller identity.Identity, input ports.CreateVendorInput) (*domain.Vendor, error) {
	if !caller.Is(identity.RoleVendor) {
		return nil, fmt.Errorf("%w: only vendors can create profiles", ErrForbidden)
	}
	existing, err := s.repo.GetByUser(ctx, caller.UserID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}
	vendor, err := domain.NewVendor(s.newID(), caller.UserID, input.StoreName, input.Description, input.Address, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, vendor)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return vendor, nil
}

func (s *Service) ListVendors(ctx context.Context) ([]*domain.Vendor, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return vendors, nil
}

var _ ports.Service = (*Service)(nil)
