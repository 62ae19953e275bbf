package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	platformkafka "github.com/Apurer/go-gin-marketplace/internal/platform/kafka"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher writes store events to Kafka, keyed by order id so one order's events stay ordered.
type Publisher struct {
	writer MessageWriter
	newID  func() string
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer, newID: uuid.NewString}
}

type lineItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type orderPlacedPayload struct {
	EventID     string            `json:"eventId"`
	Type        string            `json:"type"`
	OccurredAt  time.Time         `json:"occurredAt"`
	OrderID     string            `json:"orderId"`
	BuyerID     string            `json:"buyerId"`
	TotalAmount string            `json:"totalAmount"`
	Items       []lineItemPayload `json:"items"`
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	payload := orderPlacedPayload{
		EventID:     p.newID(),
		Type:        event.EventName(),
		OccurredAt:  event.OccurredAt().UTC(),
		OrderID:     event.OrderID,
		BuyerID:     event.BuyerID,
		TotalAmount: event.TotalAmount.StringFixed(2),
		Items:       make([]lineItemPayload, 0, len(event.Items)),
	}
	for _, item := range event.Items {
		payload.Items = append(payload.Items, lineItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	msg := kafka.Message{
		Key:     []byte(event.OrderID),
		Value:   value,
		Time:    payload.OccurredAt,
		Headers: platformkafka.InjectHeaders(ctx, []kafka.Header{{Key: "event-type", Value: []byte(event.EventName())}}),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventName(), err)
	}
	return nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
