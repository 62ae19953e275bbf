package orders

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
)

// Register attaches the order placement workflow and its activities to a worker.
func Register(w worker.Registry, acts *orderactivities.Activities) {
	w.RegisterWorkflowWithOptions(OrderPlacementWorkflow, workflowRegisterOptions())
	w.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(acts.PublishOrderPlaced, activity.RegisterOptions{Name: orderactivities.PublishOrderPlacedActivityName})
}

func workflowRegisterOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: OrderPlacementWorkflowName}
}
