package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	storedomain "github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

const (
	// PlaceOrderActivityName reserves stock and records the order.
	PlaceOrderActivityName = "store.activities.PlaceOrder"
	// PublishOrderPlacedActivityName announces a recorded order to downstream consumers.
	PublishOrderPlacedActivityName = "store.activities.PublishOrderPlaced"
)

// Activities groups activities that operate on the store bounded context.
type Activities struct {
	placer storeports.Service
	orders storeports.Repository
	events storeports.EventPublisher
}

// NewActivities wires the store collaborators into the Temporal activities bundle.
// placer should be constructed without an event publisher to avoid duplicate events.
func NewActivities(placer storeports.Service, orders storeports.Repository, events storeports.EventPublisher) *Activities {
	return &Activities{placer: placer, orders: orders, events: events}
}

// PlaceOrder runs the order engine. Requests without a client key are keyed by the
// workflow id so a retried attempt replays the first attempt's order.
func (a *Activities) PlaceOrder(ctx context.Context, cmd storeports.PlaceOrderCommand) (*storedomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.placer == nil {
		logger.Error("place order activity not initialized", "buyerId", cmd.BuyerID)
		return nil, errors.New("place order activity not initialized")
	}
	if cmd.IdempotencyKey == "" {
		cmd.IdempotencyKey = activity.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("PlaceOrder activity started", "buyerId", cmd.BuyerID, "items", len(cmd.Items))
	order, err := a.placer.PlaceOrder(ctx, cmd)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "buyerId", cmd.BuyerID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

// PublishOrderPlaced loads a recorded order and publishes its placement event.
func (a *Activities) PublishOrderPlaced(ctx context.Context, orderID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("publish activity not initialized", "orderId", orderID)
		return errors.New("publish activity not initialized")
	}
	if a.events == nil {
		logger.Info("event publisher not configured; skipping", "orderId", orderID)
		return nil
	}

	var hb publishHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("PublishOrderPlaced already completed in prior attempt; skipping", "orderId", orderID)
		return nil
	}

	order, err := a.orders.GetByID(ctx, orderID)
	if err != nil {
		logger.Error("PublishOrderPlaced failed to load order", "orderId", orderID, "error", err)
		return err
	}
	if err := a.events.PublishOrderPlaced(ctx, storedomain.NewOrderPlaced(order)); err != nil {
		logger.Error("PublishOrderPlaced failed", "orderId", orderID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, publishHeartbeat{Completed: true})
	logger.Info("PublishOrderPlaced activity completed", "orderId", orderID)
	return nil
}

type publishHeartbeat struct {
	Completed bool
}
