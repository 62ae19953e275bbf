package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Service orchestrates store/order use cases.
type Service struct {
	repo        ports.Repository
	inventory   ports.Inventory
	vendors     ports.VendorCatalog
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithVendorCatalog enables vendor order views.
func WithVendorCatalog(vendors ports.VendorCatalog) Option {
	return func(s *Service) {
		s.vendors = vendors
	}
}

// WithIdempotencyStore enables Idempotency-Key replay for PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithEventPublisher publishes order.placed after each successful placement.
func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

// WithLogger receives compensation and publication failures, which never reach the caller.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order and line item id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, inventory ports.Inventory, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		inventory: inventory,
		events:    ports.NoopEventPublisher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates the request, reserves stock line by line and records the order.
// Any failure releases the reservations already taken for this request.
func (s *Service) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*domain.Order, error) {
	if cmd.Role != identity.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can place orders", ErrForbidden)
	}
	if strings.TrimSpace(cmd.BuyerID) == "" {
		return nil, mapError(domain.ErrMissingBuyer)
	}
	if err := domain.ValidateRequest(cmd.Items); err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(cmd.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		fp, err := FingerprintPlaceOrder(cmd)
		if err != nil {
			return nil, err
		}
		fingerprint = fp
		key = scopedIdempotencyKey(cmd.BuyerID, key)
		replayed, err := s.replay(ctx, key, fingerprint)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	reservations, err := s.reserveAll(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	lineItems := make([]domain.LineItem, 0, len(reservations))
	for _, r := range reservations {
		lineItems = append(lineItems, domain.LineItem{
			ID:        s.newID(),
			ProductID: r.ProductID,
			VendorID:  r.VendorID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}
	order, err := domain.NewOrder(s.newID(), cmd.BuyerID, lineItems, s.now().UTC())
	if err != nil {
		s.releaseAll(ctx, reservations)
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		s.releaseAll(ctx, reservations)
		return nil, fmt.Errorf("record order: %w", err)
	}

	if fingerprint != "" {
		s.rememberKey(ctx, key, fingerprint, saved.ID)
	}
	if err := s.events.PublishOrderPlaced(ctx, domain.NewOrderPlaced(saved)); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order placed but event publication failed",
			slog.String("order.id", saved.ID), slog.String("error", err.Error()))
	}
	return saved, nil
}

func (s *Service) reserveAll(ctx context.Context, items []domain.RequestedItem) ([]ports.Reservation, error) {
	reserved := make([]ports.Reservation, 0, len(items))
	for _, item := range items {
		r, err := s.inventory.Reserve(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.releaseAll(ctx, reserved)
			return nil, reservationError(item, err)
		}
		reserved = append(reserved, r)
	}
	return reserved, nil
}

// releaseAll runs detached from the request's cancellation so a dropped client cannot strand stock.
func (s *Service) releaseAll(ctx context.Context, reservations []ports.Reservation) {
	ctx = context.WithoutCancel(ctx)
	for i := len(reservations) - 1; i >= 0; i-- {
		r := reservations[i]
		if err := s.inventory.Release(ctx, r.ProductID, r.Quantity); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to release reserved stock",
				slog.String("product.id", r.ProductID),
				slog.Int("quantity", r.Quantity),
				slog.String("error", err.Error()))
		}
	}
}

func (s *Service) replay(ctx context.Context, key, fingerprint string) (*domain.Order, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load idempotency key: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != fingerprint {
		return nil, ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) rememberKey(ctx context.Context, key, fingerprint, orderID string) {
	_, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: fingerprint,
		OrderID:     orderID,
		CreatedAt:   s.now().UTC(),
	})
	if err == nil {
		return
	}
	level := slog.LevelError
	if errors.Is(err, ports.ErrIdempotencyConflict) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "failed to remember idempotency key",
		slog.String("order.id", orderID), slog.String("error", err.Error()))
}

// GetOrder returns one of the caller's own orders.
func (s *Service) GetOrder(ctx context.Context, caller identity.Identity, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if order.BuyerID != caller.UserID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the caller's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, caller identity.Identity) ([]*domain.Order, error) {
	orders, err := s.repo.ListByBuyer(ctx, caller.UserID)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// ListVendorOrders returns orders with lines the vendor sold, trimmed to those lines.
// Lines keep the vendor recorded at purchase, so deleted products still show up.
func (s *Service) ListVendorOrders(ctx context.Context, caller identity.Identity, vendorID string) ([]*domain.Order, error) {
	if s.vendors == nil {
		return nil, errors.New("vendor catalog not configured")
	}
	if !caller.Is(identity.RoleVendor) {
		return nil, fmt.Errorf("%w: only vendors can view vendor orders", ErrForbidden)
	}
	owner, err := s.vendors.OwnerOf(ctx, vendorID)
	if err != nil {
		return nil, mapError(err)
	}
	if owner != caller.UserID {
		return nil, fmt.Errorf("%w: vendor belongs to another user", ErrForbidden)
	}
	orders, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, mapError(err)
	}
	result := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if view := order.ForVendor(vendorID); view != nil {
			result = append(result, view)
		}
	}
	return result, nil
}

var _ ports.Service = (*Service)(nil)
