package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	marketserver "github.com/Apurer/go-gin-marketplace/go"
	"github.com/Apurer/go-gin-marketplace/internal/clients/http/cloudinary"
	cloudinaryimages "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/images/cloudinary"
	localimages "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/images/local"
	catalogobs "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/observability"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/vendordirectory"
	catalogapp "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/catalogbridge"
	storeobs "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/observability"
	storeworkflows "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/workflows"
	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	userobs "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/observability"
	"github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/token/jwt"
	userapp "github.com/Apurer/go-gin-marketplace/internal/domains/users/application"
	vendorobs "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/adapters/observability"
	vendorapp "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/application"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-marketplace/internal/platform/temporal"
)

const (
	serviceName   = "marketplace-api"
	tokenIssuer   = "marketplace-api"
	uploadsPrefix = "/uploads"
)

// Run boots the marketplace HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backends := OpenBackends(ctx, cfg, logger)
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Error("failed to close backends", slog.String("error", err.Error()))
		}
	}()
	repos := backends.Repositories(cfg)

	issuer, err := jwt.NewIssuer(cfg.JWTSecret, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return err
	}
	userService := userobs.New(
		userapp.NewService(repos.Users, repos.Sessions, issuer, userapp.WithTokenTTL(cfg.JWTTTL)),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	vendorService := vendorobs.New(
		vendorapp.NewService(repos.Vendors),
		vendorobs.WithLogger(logger),
		vendorobs.WithTracer(instruments.Tracer("internal.vendors.application")),
		vendorobs.WithMeter(instruments.Meter("internal.vendors.application")),
	)
	images, err := buildImageStore(cfg)
	if err != nil {
		return err
	}
	catalogService := catalogobs.New(
		catalogapp.NewService(repos.Products, vendordirectory.New(repos.Vendors),
			catalogapp.WithImageStore(images),
			catalogapp.WithLogger(logger),
		),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	storeService := storeobs.New(
		storeapp.NewService(repos.Orders, catalogbridge.NewInventory(repos.Products),
			storeapp.WithVendorCatalog(catalogbridge.NewVendorCatalog(repos.Vendors)),
			storeapp.WithIdempotencyStore(repos.Idempotency),
			storeapp.WithEventPublisher(repos.Events),
			storeapp.WithLogger(logger),
		),
		storeobs.WithLogger(logger),
		storeobs.WithTracer(instruments.Tracer("internal.store.application")),
		storeobs.WithMeter(instruments.Meter("internal.store.application")),
	)

	var orderWorkflows storeports.WorkflowOrchestrator = storeworkflows.NewInlineOrderWorkflows(storeService)
	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
		Tracer:    instruments.Tracer("temporal-client"),
		Logger:    logger,
	})
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = storeworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), marketserver.CORS(cfg.CORSAllowedOrigins))
	marketserver.NewRouterWithGinEngine(router, marketserver.ApiHandleFunctions{
		Auth:       userService,
		UserAPI:    marketserver.NewUserAPI(userService),
		VendorAPI:  marketserver.NewVendorAPI(vendorService, catalogService, storeService),
		ProductAPI: marketserver.NewProductAPI(catalogService),
		OrderAPI:   marketserver.NewOrderAPI(storeService, orderWorkflows),
	})
	if cfg.ImageStore == ImageStoreLocal {
		router.Static(uploadsPrefix, cfg.UploadDir)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("marketplace API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down marketplace API")
		return server.Shutdown(shutdownCtx)
	})
	if cfg.SessionPurgeInterval > 0 {
		g.Go(func() error {
			purgeSessions(gctx, repos.Sessions, cfg.SessionPurgeInterval, logger)
			return nil
		})
	}
	return g.Wait()
}

func buildImageStore(cfg Config) (catalogports.ImageStore, error) {
	if cfg.ImageStore == ImageStoreCloudinary {
		client, err := cloudinary.NewClient(cfg.Cloudinary, &http.Client{Timeout: 30 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("configure cloudinary: %w", err)
		}
		return cloudinaryimages.NewStore(client, cfg.ImageFolder), nil
	}
	return localimages.NewStore(cfg.UploadDir, cfg.ImageFolder, uploadsPrefix), nil
}

// purgeSessions drops expired sessions on every tick until ctx ends.
func purgeSessions(ctx context.Context, sessions SessionStore, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purged, err := sessions.PurgeExpired(ctx, now)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				logger.Info("expired sessions purged", slog.Int64("count", purged))
			}
		}
	}
}
