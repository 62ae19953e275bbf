package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for store domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised once an order and all of its line items are recorded.
type OrderPlaced struct {
	BaseEvent
	OrderID     string
	BuyerID     string
	Items       []LineItem
	TotalAmount decimal.Decimal
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "store.order.placed"
}

// NewOrderPlaced builds the event for a freshly recorded order.
func NewOrderPlaced(order *Order) OrderPlaced {
	snapshot := order.Clone()
	return OrderPlaced{
		BaseEvent:   BaseEvent{Timestamp: order.CreatedAt},
		OrderID:     snapshot.ID,
		BuyerID:     snapshot.BuyerID,
		Items:       snapshot.Items,
		TotalAmount: snapshot.TotalAmount,
	}
}
