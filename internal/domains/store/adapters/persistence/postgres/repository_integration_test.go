//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/catalogbridge"
	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	"github.com/Apurer/go-gin-marketplace/internal/platform/migrations"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

func setupStorePostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("marketplace_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTestOrder(t *testing.T, id, buyerID string, createdAt time.Time, productIDs ...string) *domain.Order {
	t.Helper()
	items := make([]domain.LineItem, 0, len(productIDs))
	for i, pid := range productIDs {
		items = append(items, domain.LineItem{
			ID:        id + "-li-" + pid,
			ProductID: pid,
			VendorID:  "v-" + pid,
			Quantity:  i + 1,
			UnitPrice: decimal.RequireFromString("2.50"),
		})
	}
	order, err := domain.NewOrder(id, buyerID, items, createdAt)
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, "order-1", "buyer-1", time.Now().UTC(), "p1", "p2")
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "order-1", saved.ID)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, "p1", saved.Items[0].ProductID)
	assert.Equal(t, "p2", saved.Items[1].ProductID)
	assert.True(t, decimal.RequireFromString("7.50").Equal(saved.TotalAmount))

	_, err = repo.GetByID(ctx, "order-9")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListByBuyerAndVendor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for _, o := range []*domain.Order{
		newTestOrder(t, "order-a", "buyer-1", base, "p1"),
		newTestOrder(t, "order-b", "buyer-1", base.Add(time.Minute), "p2", "p3"),
		newTestOrder(t, "order-c", "buyer-2", base.Add(2*time.Minute), "p3"),
	} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	mine, err := repo.ListByBuyer(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "order-b", mine[0].ID)
	assert.Len(t, mine[0].Items, 2)

	withP3, err := repo.ListByVendor(ctx, "v-p3")
	require.NoError(t, err)
	require.Len(t, withP3, 2)
	assert.Equal(t, "order-c", withP3[0].ID)
	assert.Equal(t, "order-b", withP3[1].ID)

	none, err := repo.ListByVendor(ctx, "v-p9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db, 0)
	ctx := context.Background()

	got, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	rec := ports.IdempotencyRecord{Key: "key-1", RequestHash: "h1", OrderID: "order-1", CreatedAt: time.Now().UTC()}
	_, err = store.Save(ctx, rec)
	require.NoError(t, err)

	again, err := store.Save(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "order-1", again.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "h2", OrderID: "order-2", CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "order-1", existing.OrderID)
}

func TestIdempotencyStore_ExpiredKeyIsReplaced(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Second)
	store := NewIdempotencyStore(db, time.Hour)
	store.WithClock(func() time.Time { return now })
	ctx := context.Background()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "buyer-1:k", RequestHash: "h1", OrderID: "order-1", CreatedAt: now})
	require.NoError(t, err)
	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "buyer-1:k", RequestHash: "h2", OrderID: "order-2", CreatedAt: now})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	now = now.Add(2 * time.Hour)
	got, err := store.Get(ctx, "buyer-1:k")
	require.NoError(t, err)
	assert.Nil(t, got)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "buyer-1:k", RequestHash: "h2", OrderID: "order-2", CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "order-2", saved.OrderID)
	got, err = store.Get(ctx, "buyer-1:k")
	require.NoError(t, err)
	assert.Equal(t, "order-2", got.OrderID)
}

func TestPlaceOrder_ConcurrentOrdersNeverOversellOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupStorePostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	products := catalogpostgres.NewRepository(db)
	orders := NewRepository(db)
	svc := storeapp.NewService(orders, catalogbridge.NewInventory(products))

	for id, stock := range map[string]int{"p-mug": 10, "p-lid": 0} {
		p, err := catalogdomain.NewProduct(id, "vendor-1", "Item "+id, "Stoneware", decimal.RequireFromString("9.99"), stock)
		require.NoError(t, err)
		_, err = products.Save(ctx, p)
		require.NoError(t, err)
	}

	cmd := ports.PlaceOrderCommand{
		BuyerID: "buyer-1",
		Role:    identity.RoleCustomer,
		Items:   []domain.RequestedItem{{ProductID: "p-mug", Quantity: 6}},
	}
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(ctx, cmd)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, storeapp.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)

	mug, err := products.GetByID(ctx, "p-mug")
	require.NoError(t, err)
	assert.Equal(t, 4, mug.StockQuantity)

	_, err = svc.PlaceOrder(ctx, ports.PlaceOrderCommand{
		BuyerID: "buyer-1",
		Role:    identity.RoleCustomer,
		Items: []domain.RequestedItem{
			{ProductID: "p-mug", Quantity: 1},
			{ProductID: "p-lid", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, storeapp.ErrInsufficientStock)
	mug, err = products.GetByID(ctx, "p-mug")
	require.NoError(t, err)
	assert.Equal(t, 4, mug.StockQuantity)

	placed, err := orders.ListByBuyer(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Len(t, placed, 1)
}
