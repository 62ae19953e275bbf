package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	storedomain "github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence places the order, then publishes its event under a separate retry policy.
// A failed publication is logged and does not fail the placement.
func RunOrderPlacementSequence(ctx workflow.Context, cmd storeports.PlaceOrderCommand) (*storedomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "buyerId", cmd.BuyerID)
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	publishOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    10,
		},
	}

	var order storedomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, cmd).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "buyerId", cmd.BuyerID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence recorded order", "orderId", order.ID)

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, publishOptions), orderactivities.PublishOrderPlacedActivityName, order.ID).Get(ctx, nil); err != nil {
		logger.Warn("order placement sequence could not publish event", "orderId", order.ID, "error", err)
	}
	return &order, nil
}
