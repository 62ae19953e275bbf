//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-marketplace/test/pact"

	marketserver "github.com/Apurer/go-gin-marketplace/go"
	catalogmemory "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/vendordirectory"
	catalogapp "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/catalogbridge"
	storememory "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/memory"
	storeobs "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/observability"
	storeworkflows "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/workflows"
	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	usermemory "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/observability"
	"github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/token/jwt"
	userapp "github.com/Apurer/go-gin-marketplace/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	vendormemory "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/adapters/memory"
	vendorapp "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/application"
	vendordomain "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductInStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetProducts(t)
			if setup {
				app.seedProduct(t, pacttest.InitialStock)
			}
			return nil, nil
		},
		pacttest.StateProductSoldOut: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetProducts(t)
			if setup {
				app.seedProduct(t, 0)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetProducts(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		RequestFilter: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
					r.Header.Set("Authorization", "Bearer "+app.buyerToken())
				}
				next.ServeHTTP(w, r)
			})
		},
		BeforeEach: func() error {
			app.resetProducts(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	products *catalogmemory.Repository
	users    userports.Service
	server   *httptest.Server

	mu    sync.Mutex
	token string
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	issuer, err := jwt.NewIssuer("pact-provider-secret")
	require.NoError(t, err)
	userService := userobs.New(userapp.NewService(usermemory.NewRepository(), usermemory.NewSessionStore(), issuer,
		userapp.WithTokenTTL(time.Hour)))

	vendorRepo := vendormemory.NewRepository()
	owner, err := vendordomain.NewVendor(pacttest.VendorID, "pact-seller", "Pact Pottery", "Contract wares", "1 Pact Way", time.Now())
	require.NoError(t, err)
	_, err = vendorRepo.Create(context.Background(), owner)
	require.NoError(t, err)

	products := catalogmemory.NewRepository()
	catalogService := catalogapp.NewService(products, vendordirectory.New(vendorRepo))
	storeService := storeobs.New(storeapp.NewService(storememory.NewRepository(), catalogbridge.NewInventory(products),
		storeapp.WithVendorCatalog(catalogbridge.NewVendorCatalog(vendorRepo)),
	))

	router := gin.New()
	router.Use(gin.Recovery())
	router = marketserver.NewRouterWithGinEngine(router, marketserver.ApiHandleFunctions{
		Auth:       userService,
		UserAPI:    marketserver.NewUserAPI(userService),
		VendorAPI:  marketserver.NewVendorAPI(vendorapp.NewService(vendorRepo), catalogService, storeService),
		ProductAPI: marketserver.NewProductAPI(catalogService),
		OrderAPI:   marketserver.NewOrderAPI(storeService, storeworkflows.NewInlineOrderWorkflows(storeService)),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{products: products, users: userService, server: server}
}

// buyerToken registers the contract buyer once and logs in for a fresh token.
func (a *contractProviderApp) buyerToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != "" {
		return a.token
	}
	ctx := context.Background()
	_, _ = a.users.Register(ctx, userports.RegisterInput{
		Name: "Pact Buyer", Email: "pact.buyer@example.com", Password: "pact-pass", Role: "customer",
	})
	result, err := a.users.Login(ctx, "pact.buyer@example.com", "pact-pass")
	if err != nil {
		return ""
	}
	a.token = result.Token
	return a.token
}

func (a *contractProviderApp) resetProducts(t testing.TB) {
	t.Helper()
	products, err := a.products.List(context.Background())
	require.NoError(t, err)
	for _, p := range products {
		_ = a.products.Delete(context.Background(), p.ID)
	}
}

func (a *contractProviderApp) seedProduct(t testing.TB, stock int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(pacttest.ProductID, pacttest.VendorID, "Pact Mug", "Stoneware", decimal.RequireFromString(pacttest.UnitPrice), stock)
	require.NoError(t, err)
	_, err = a.products.Save(context.Background(), product)
	require.NoError(t, err)
}
