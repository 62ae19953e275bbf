package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	vendordomain "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	vendorports "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/adapters/observability/service"

// Service decorates the vendor service with tracing, logging, and metrics.
type Service struct {
	inner          vendorports.Service
	tracer         trace.Tracer
	logger         *slog.Logger
	vendorsCreated metric.Int64Counter
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
		if m != nil {
			s.vendorsCreated, _ = m.Int64Counter("vendors.service.vendors_created", metric.WithDescription("Number of vendor profiles created"))
		}
	}
}

func New(inner vendorports.Service, opts ...Option) vendorports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) CreateVendor(ctx context.Context, caller identity.Identity, input vendorports.CreateVendorInput) (*vendordomain.Vendor, error) {
	ctx, span := s.tracer.Start(ctx, "VendorService.CreateVendor", trace.WithAttributes(attribute.String("user.id", caller.UserID)))
	defer span.End()

	result, err := s.inner.CreateVendor(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create vendor", slog.String("user.id", caller.UserID))
	}
	if s.vendorsCreated != nil {
		s.vendorsCreated.Add(ctx, 1)
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "vendor created", slog.String("vendor.id", result.ID), slog.String("user.id", caller.UserID))
	}
	return result, nil
}

func (s *Service) GetVendor(ctx context.Context, id string) (*vendordomain.Vendor, error) {
	ctx, span := s.tracer.Start(ctx, "VendorService.GetVendor", trace.WithAttributes(attribute.String("vendor.id", id)))
	defer span.End()

	result, err := s.inner.GetVendor(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load vendor", slog.String("vendor.id", id))
	}
	return result, nil
}

func (s *Service) ListVendors(ctx context.Context) ([]*vendordomain.Vendor, error) {
	ctx, span := s.tracer.Start(ctx, "VendorService.ListVendors")
	defer span.End()

	result, err := s.inner.ListVendors(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list vendors")
	}
	span.SetAttributes(attribute.Int("vendors.count", len(result)))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ vendorports.Service = (*Service)(nil)
