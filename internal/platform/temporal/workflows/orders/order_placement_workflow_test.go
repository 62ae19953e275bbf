package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	catalogmemory "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/catalogbridge"
	storememory "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/memory"
	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	storedomain "github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []storedomain.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, event storedomain.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type harness struct {
	env       *testsuite.TestWorkflowEnvironment
	products  *catalogmemory.Repository
	publisher *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	h := &harness{
		env:       suite.NewTestWorkflowEnvironment(),
		products:  catalogmemory.NewRepository(),
		publisher: &recordingPublisher{},
	}
	orders := storememory.NewRepository()
	placer := storeapp.NewService(orders, catalogbridge.NewInventory(h.products),
		storeapp.WithIdempotencyStore(storememory.NewIdempotencyStore(0)))
	acts := orderactivities.NewActivities(placer, orders, h.publisher)
	h.env.RegisterWorkflowWithOptions(OrderPlacementWorkflow, workflowRegisterOptions())
	h.env.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	h.env.RegisterActivityWithOptions(acts.PublishOrderPlaced, activity.RegisterOptions{Name: orderactivities.PublishOrderPlacedActivityName})

	p, err := catalogdomain.NewProduct("p1", "vendor-1", "Mug", "Stoneware", decimal.RequireFromString("8.25"), 5)
	require.NoError(t, err)
	_, err = h.products.Save(context.Background(), p)
	require.NoError(t, err)
	return h
}

func placeInput(quantity int) OrderPlacementWorkflowInput {
	return OrderPlacementWorkflowInput{Command: storeports.PlaceOrderCommand{
		BuyerID: "buyer-1",
		Role:    identity.RoleCustomer,
		Items:   []storedomain.RequestedItem{{ProductID: "p1", Quantity: quantity}},
	}}
}

func TestOrderPlacementWorkflow_PlacesAndPublishes(t *testing.T) {
	h := newHarness(t)

	h.env.ExecuteWorkflow(OrderPlacementWorkflow, placeInput(2))
	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var order storedomain.Order
	require.NoError(t, h.env.GetWorkflowResult(&order))
	require.True(t, decimal.RequireFromString("16.50").Equal(order.TotalAmount))
	require.Len(t, h.publisher.events, 1)
	require.Equal(t, order.ID, h.publisher.events[0].OrderID)

	p, err := h.products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 3, p.StockQuantity)
}

func TestOrderPlacementWorkflow_InsufficientStockIsNotRetried(t *testing.T) {
	h := newHarness(t)

	h.env.ExecuteWorkflow(OrderPlacementWorkflow, placeInput(9))
	require.True(t, h.env.IsWorkflowCompleted())

	err := orderactivities.DecodeError(h.env.GetWorkflowError())
	require.ErrorIs(t, err, storeapp.ErrInsufficientStock)
	var shortage *storeapp.InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	require.Equal(t, "p1", shortage.ProductID)
	require.Equal(t, 9, shortage.Requested)
	require.Equal(t, 5, shortage.Available)
	require.Empty(t, h.publisher.events)
}

func TestOrderPlacementWorkflow_PublishFailureKeepsOrder(t *testing.T) {
	h := newHarness(t)
	h.publisher.err = errors.New("broker unavailable")

	h.env.ExecuteWorkflow(OrderPlacementWorkflow, placeInput(1))
	require.True(t, h.env.IsWorkflowCompleted())
	require.NoError(t, h.env.GetWorkflowError())

	var order storedomain.Order
	require.NoError(t, h.env.GetWorkflowResult(&order))
	require.NotEmpty(t, order.ID)
}
