package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/workflows/orders"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

func command(key string) ports.PlaceOrderCommand {
	return ports.PlaceOrderCommand{
		BuyerID:        "buyer-1",
		Role:           identity.RoleCustomer,
		Items:          []domain.RequestedItem{{ProductID: "p1", Quantity: 1}},
		IdempotencyKey: key,
	}
}

func TestTemporalOrderWorkflows_ReturnsOrder(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.TaskQueue == orderworkflows.OrderPlacementTaskQueue
	}), orderworkflows.OrderPlacementWorkflowName, mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order := args.Get(1).(*domain.Order)
		order.ID = "order-1"
		order.TotalAmount = decimal.RequireFromString("4.00")
	}).Return(nil)

	order, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), command(""))
	require.NoError(t, err)
	require.Equal(t, "order-1", order.ID)
	c.AssertExpectations(t)
}

func TestTemporalOrderWorkflows_DecodesBusinessFailures(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(run, nil)
	failure := orderactivities.EncodeError(&storeapp.InsufficientStockError{ProductID: "p1", Requested: 4, Available: 2})
	run.On("Get", mock.Anything, mock.Anything).Return(failure)

	_, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), command(""))
	require.ErrorIs(t, err, storeapp.ErrInsufficientStock)
	require.EqualError(t, err, "Insufficient stock for product: p1")
}

func TestTemporalOrderWorkflows_JoinsRunningIdempotentWorkflow(t *testing.T) {
	c := &mocks.Client{}
	existing := &mocks.WorkflowRun{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("started", "req", "run-1"))
	c.On("GetWorkflow", mock.Anything, buildOrderPlacementWorkflowID(command("key-1")), "run-1").Return(existing)
	existing.On("Get", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Order).ID = "order-7"
	}).Return(nil)

	order, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), command("key-1"))
	require.NoError(t, err)
	require.Equal(t, "order-7", order.ID)
}

func TestBuildOrderPlacementWorkflowID(t *testing.T) {
	require.Equal(t, buildOrderPlacementWorkflowID(command("k")), buildOrderPlacementWorkflowID(command("k")))
	other := command("k")
	other.BuyerID = "buyer-2"
	require.NotEqual(t, buildOrderPlacementWorkflowID(command("k")), buildOrderPlacementWorkflowID(other))
	require.NotEqual(t, buildOrderPlacementWorkflowID(command("")), buildOrderPlacementWorkflowID(command("")))
}

type stubService struct {
	ports.Service
	err error
}

func (s stubService) PlaceOrder(context.Context, ports.PlaceOrderCommand) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: "inline"}, nil
}

func TestInlineOrderWorkflows(t *testing.T) {
	order, err := NewInlineOrderWorkflows(stubService{}).PlaceOrder(context.Background(), command(""))
	require.NoError(t, err)
	require.Equal(t, "inline", order.ID)

	boom := errors.New("boom")
	_, err = NewInlineOrderWorkflows(stubService{err: boom}).PlaceOrder(context.Background(), command(""))
	require.ErrorIs(t, err, boom)

	_, err = (*InlineOrderWorkflows)(nil).PlaceOrder(context.Background(), command(""))
	require.Error(t, err)
}
