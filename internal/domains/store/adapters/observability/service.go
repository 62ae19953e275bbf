package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	storedomain "github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/observability/service"

// Service decorates the store service with tracing, logging, and metrics.
type Service struct {
	inner   storeports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core store service.
func New(inner storeports.Service, opts ...Option) storeports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, cmd storeports.PlaceOrderCommand) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.buyer_id", cmd.BuyerID),
			attribute.Int("order.item_count", len(cmd.Items)),
			attribute.Bool("order.idempotent", cmd.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.buyer_id", cmd.BuyerID), slog.Int("order.item_count", len(cmd.Items)))
	result, err := s.inner.PlaceOrder(ctx, cmd)
	if err != nil {
		s.metrics.recordFailure(ctx, failureReason(err))
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.buyer_id", cmd.BuyerID))
	}
	s.metrics.recordPlaced(ctx, len(result.Items))
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.String("order.total", result.TotalAmount.StringFixed(2)))
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.String("order.total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, caller identity.Identity, id string) (*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, caller identity.Identity) ([]*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListOrders", trace.WithAttributes(attribute.String("user.id", caller.UserID)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("user.id", caller.UserID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListVendorOrders(ctx context.Context, caller identity.Identity, vendorID string) ([]*storedomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListVendorOrders", trace.WithAttributes(attribute.String("vendor.id", vendorID)))
	defer span.End()

	result, err := s.inner.ListVendorOrders(ctx, caller, vendorID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list vendor orders", slog.String("vendor.id", vendorID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, storeapp.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, storeapp.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, storeapp.ErrForbidden):
		return "forbidden"
	case errors.Is(err, storeapp.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, storeapp.ErrIdempotencyConflict):
		return "idempotency_conflict"
	default:
		return "internal"
	}
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	orderFailures metric.Int64Counter
	lineItems     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("store.service.orders_placed", metric.WithDescription("Number of orders placed"))
	orderFailures, _ := m.Int64Counter("store.service.order_failures", metric.WithDescription("Number of rejected or failed order placements"))
	lineItems, _ := m.Int64Counter("store.service.line_items", metric.WithDescription("Number of line items recorded"))
	return serviceMetrics{ordersPlaced: ordersPlaced, orderFailures: orderFailures, lineItems: lineItems}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, items int) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.lineItems != nil {
		m.lineItems.Add(ctx, int64(items))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, reason string) {
	if m.orderFailures != nil {
		m.orderFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

var _ storeports.Service = (*Service)(nil)
