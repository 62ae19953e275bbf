package marketserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/http/mapper"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

// IdempotencyKeyHeader lets clients retry order submissions safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI serves order placement and the buyer's order history.
type OrderAPI struct {
	service   storeports.Service
	workflows storeports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. Placement goes through workflows when one is configured.
func NewOrderAPI(service storeports.Service, workflows storeports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/orders
// Place an order; customers only
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.PlaceOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	cmd := orderhttpmapper.ToPlaceOrderCommand(caller, payload, key)

	var placer storeports.WorkflowOrchestrator = api.service
	if api.workflows != nil {
		placer = api.workflows
	}
	order, err := placer.PlaceOrder(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully!",
		"order":   orderhttpmapper.FromDomainOrder(order),
	})
}

// Get /api/orders
// List the caller's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	orders, err := api.service.ListOrders(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/:orderId
// Find one of the caller's orders
func (api *OrderAPI) GetOrder(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), caller, c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}
