package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Service orchestrates the catalog use cases.
type Service struct {
	repo    ports.Repository
	vendors ports.VendorDirectory
	images  ports.ImageStore
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

// WithImageStore enables image upload on create and update.
func WithImageStore(images ports.ImageStore) Option {
	return func(s *Service) {
		s.images = images
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

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

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, vendors ports.VendorDirectory, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		vendors: vendors,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateProduct lists a new product under a vendor the caller owns.
func (s *Service) CreateProduct(ctx context.Context, caller identity.Identity, input catalogtypes.CreateProductInput) (*domain.Product, error) {
	if err := s.authorize(ctx, caller, input.VendorID, "add products for this vendor"); err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(s.newID(), input.VendorID, input.Name, input.Description, input.Price, input.StockQuantity)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Image != nil {
		img, err := s.upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		product.AttachImage(img)
	}
	now := s.now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		s.discardImage(ctx, product.Image)
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct applies a partial change. A new image replaces and destroys the old one.
func (s *Service) UpdateProduct(ctx context.Context, caller identity.Identity, input catalogtypes.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.authorize(ctx, caller, product.VendorID, "update this product"); err != nil {
		return nil, err
	}
	if err := applyChanges(product, input); err != nil {
		return nil, mapError(err)
	}
	if input.Image != nil {
		if !product.Image.IsZero() {
			if err := s.destroy(ctx, product.Image.ID); err != nil {
				return nil, err
			}
		}
		img, err := s.upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		product.AttachImage(img)
	}
	product.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	if input.StockQuantity != nil {
		saved, err = s.repo.SetStock(ctx, product.ID, *input.StockQuantity)
		if err != nil {
			return nil, mapError(err)
		}
	}
	return saved, nil
}

// DeleteProduct destroys the product's image and then removes the product.
func (s *Service) DeleteProduct(ctx context.Context, caller identity.Identity, input catalogtypes.ProductIdentifier) error {
	product, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return mapError(err)
	}
	if err := s.authorize(ctx, caller, product.VendorID, "delete this product"); err != nil {
		return err
	}
	if product.Image.ID != "" {
		if err := s.destroy(ctx, product.Image.ID); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Service) GetProduct(ctx context.Context, input catalogtypes.ProductIdentifier) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (s *Service) ListVendorProducts(ctx context.Context, vendorID string) ([]*domain.Product, error) {
	products, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// authorize requires a vendor-role caller who owns vendorID.
func (s *Service) authorize(ctx context.Context, caller identity.Identity, vendorID, action string) error {
	if s.vendors == nil {
		return errors.New("vendor directory not configured")
	}
	owner, err := s.vendors.OwnerOf(ctx, vendorID)
	if err != nil {
		return mapError(err)
	}
	if !caller.Is(identity.RoleVendor) || owner != caller.UserID {
		return fmt.Errorf("%w: not authorized to %s", ErrForbidden, action)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, upload catalogtypes.ImageUpload) (domain.Image, error) {
	if s.images == nil {
		return domain.Image{}, errors.New("image store not configured")
	}
	img, err := s.images.Upload(ctx, upload)
	if err != nil {
		return domain.Image{}, fmt.Errorf("upload image: %w", err)
	}
	return img, nil
}

func (s *Service) destroy(ctx context.Context, imageID string) error {
	if s.images == nil {
		return errors.New("image store not configured")
	}
	if err := s.images.Destroy(ctx, imageID); err != nil {
		return fmt.Errorf("destroy image %s: %w", imageID, err)
	}
	return nil
}

// discardImage removes an image that was uploaded for a product that never got stored.
func (s *Service) discardImage(ctx context.Context, img domain.Image) {
	if img.ID == "" || s.images == nil {
		return
	}
	if err := s.images.Destroy(context.WithoutCancel(ctx), img.ID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to discard orphaned image",
			slog.String("image.id", img.ID), slog.String("error", err.Error()))
	}
}

func applyChanges(product *domain.Product, input catalogtypes.UpdateProductInput) error {
	if input.Name != nil {
		if err := product.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Description != nil {
		if err := product.Describe(*input.Description); err != nil {
			return err
		}
	}
	if input.Price != nil {
		if err := product.Reprice(*input.Price); err != nil {
			return err
		}
	}
	if input.StockQuantity != nil {
		if err := product.SetStock(*input.StockQuantity); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
