package mapper

import (
	"time"

	storedomain "github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// OrderItem is one requested line in a new order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrder is the order submission payload.
type PlaceOrder struct {
	Items []OrderItem `json:"items"`
}

// LineItem is the recorded snapshot of a purchased product.
type LineItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Order is the transport representation of a recorded order.
type Order struct {
	ID          string     `json:"id"`
	BuyerID     string     `json:"buyerId"`
	Items       []LineItem `json:"items"`
	TotalAmount string     `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToPlaceOrderCommand binds the payload to the authenticated caller.
func ToPlaceOrderCommand(caller identity.Identity, payload PlaceOrder, idempotencyKey string) storeports.PlaceOrderCommand {
	items := make([]storedomain.RequestedItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, storedomain.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return storeports.PlaceOrderCommand{
		BuyerID:        caller.UserID,
		Role:           caller.Role,
		Items:          items,
		IdempotencyKey: idempotencyKey,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *storedomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return Order{
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		Items:       items,
		TotalAmount: order.TotalAmount.StringFixed(2),
		CreatedAt:   order.CreatedAt,
	}
}

func FromDomainOrders(orders []*storedomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
