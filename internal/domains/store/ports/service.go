package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// PlaceOrderCommand is everything the order engine needs from the caller.
type PlaceOrderCommand struct {
	BuyerID        string
	Role           identity.Role
	Items          []domain.RequestedItem
	IdempotencyKey string
}

// Service exposes store/order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, caller identity.Identity, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, caller identity.Identity) ([]*domain.Order, error)
	ListVendorOrders(ctx context.Context, caller identity.Identity, vendorID string) ([]*domain.Order, error)
}

// WorkflowOrchestrator runs order placement either inline or on a durable engine.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}
