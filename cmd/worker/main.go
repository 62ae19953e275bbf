package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/worker"

	"github.com/Apurer/go-gin-marketplace/internal/app/api"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/catalogbridge"
	storeobs "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/observability"
	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-marketplace/internal/platform/temporal"
	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "marketplace-worker"
	cfg, err := api.LoadBackendConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backends := api.OpenBackends(ctx, cfg, logger)
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Error("failed to close backends", slog.String("error", err.Error()))
		}
	}()
	if backends.DB == nil {
		logger.Warn("worker running against in-memory repositories; orders will not be visible to the API")
	}
	repos := backends.Repositories(cfg)

	// Events are published by a dedicated activity, so the placer gets no publisher.
	placer := storeobs.New(
		storeapp.NewService(repos.Orders, catalogbridge.NewInventory(repos.Products),
			storeapp.WithIdempotencyStore(repos.Idempotency),
			storeapp.WithLogger(logger),
		),
		storeobs.WithLogger(logger),
		storeobs.WithTracer(instruments.Tracer("internal.store.application")),
		storeobs.WithMeter(instruments.Meter("internal.store.application")),
	)
	activities := orderactivities.NewActivities(placer, repos.Orders, repos.Events)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Tracer:    instruments.Tracer("temporal-worker"),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	orderworkflows.Register(w, activities)

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
