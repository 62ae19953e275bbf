package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
)

// EventPublisher forwards store domain events to downstream consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
}

// NoopEventPublisher drops events; used when no broker is configured.
var NoopEventPublisher EventPublisher = noopEventPublisher{}

type noopEventPublisher struct{}

func (noopEventPublisher) PublishOrderPlaced(context.Context, domain.OrderPlaced) error { return nil }
