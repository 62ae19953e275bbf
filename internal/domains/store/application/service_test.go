package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/memory"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

type fakeProduct struct {
	price  decimal.Decimal
	stock  int
	vendor string
}

type fakeInventory struct {
	mu       sync.Mutex
	products map[string]*fakeProduct
	failOn   string
	released []string
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{products: map[string]*fakeProduct{}}
}

func (f *fakeInventory) add(id, price string, stock int, vendor string) {
	f.products[id] = &fakeProduct{price: decimal.RequireFromString(price), stock: stock, vendor: vendor}
}

func (f *fakeInventory) stockOf(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].stock
}

func (f *fakeInventory) Reserve(_ context.Context, productID string, quantity int) (ports.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if productID == f.failOn {
		return ports.Reservation{}, errors.New("connection reset")
	}
	p, ok := f.products[productID]
	if !ok {
		return ports.Reservation{}, ports.ErrProductNotFound
	}
	if p.stock < quantity {
		return ports.Reservation{}, &ports.StockShortage{ProductID: productID, Requested: quantity, Available: p.stock}
	}
	p.stock -= quantity
	return ports.Reservation{ProductID: productID, Quantity: quantity, UnitPrice: p.price, VendorID: p.vendor, Remaining: p.stock}, nil
}

func (f *fakeInventory) Release(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[productID].stock += quantity
	f.released = append(f.released, productID)
	return nil
}

func (f *fakeInventory) OwnerOf(_ context.Context, vendorID string) (string, error) {
	if vendorID != "v1" && vendorID != "v2" {
		return "", ports.ErrVendorNotFound
	}
	return "owner-" + vendorID, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, evt domain.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func customerCmd(items ...domain.RequestedItem) ports.PlaceOrderCommand {
	return ports.PlaceOrderCommand{BuyerID: "buyer-1", Role: identity.RoleCustomer, Items: items}
}

func item(id string, qty int) domain.RequestedItem {
	return domain.RequestedItem{ProductID: id, Quantity: qty}
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return "id-" + decimal.NewFromInt(n.Add(1)).String()
	}
}

func TestPlaceOrder_ComputesTotalAndDecrementsStock(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "10.50", 5, "v1")
	inv.add("p2", "3.25", 10, "v2")
	repo := memory.NewRepository()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(repo, inv, WithClock(func() time.Time { return fixed }), WithIDGenerator(sequentialIDs()))

	order, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 2), item("p2", 3)))
	require.NoError(t, err)
	require.Equal(t, "buyer-1", order.BuyerID)
	require.Len(t, order.Items, 2)
	require.True(t, decimal.RequireFromString("30.75").Equal(order.TotalAmount))
	require.True(t, decimal.RequireFromString("10.50").Equal(order.Items[0].UnitPrice))
	require.Equal(t, fixed, order.CreatedAt)
	require.Equal(t, 3, inv.stockOf("p1"))
	require.Equal(t, 7, inv.stockOf("p2"))

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(stored.TotalAmount))
}

func TestPlaceOrder_SequentialOrdersLeaveRemainder(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 10, "v1")
	svc := NewService(memory.NewRepository(), inv)

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 3)))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), customerCmd(item("p1", 4)))
	require.NoError(t, err)
	require.Equal(t, 3, inv.stockOf("p1"))
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 0, "v1")
	repo := memory.NewRepository()
	svc := NewService(repo, inv)

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 1)))
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.EqualError(t, err, "Insufficient stock for product: p1")

	var shortage *InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	require.Equal(t, 1, shortage.Requested)
	require.Equal(t, 0, shortage.Available)
	require.Equal(t, 0, inv.stockOf("p1"))
	require.Zero(t, repo.Count())
}

func TestPlaceOrder_RejectsNonCustomers(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 5, "v1")
	repo := memory.NewRepository()
	svc := NewService(repo, inv)

	cmd := customerCmd(item("p1", 1))
	cmd.Role = identity.RoleVendor
	_, err := svc.PlaceOrder(context.Background(), cmd)
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, 5, inv.stockOf("p1"))
	require.Zero(t, repo.Count())
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	inv := newFakeInventory()
	repo := memory.NewRepository()
	svc := NewService(repo, inv)

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("missing", 1)))
	require.ErrorIs(t, err, ErrProductNotFound)
	var notFound *ProductNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "missing", notFound.ProductID)
	require.Zero(t, repo.Count())
}

func TestPlaceOrder_InvalidRequests(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 5, "v1")
	svc := NewService(memory.NewRepository(), inv)

	cases := map[string]ports.PlaceOrderCommand{
		"no items":      customerCmd(),
		"zero quantity": customerCmd(item("p1", 0)),
		"blank product": customerCmd(item(" ", 1)),
		"no buyer":      {Role: identity.RoleCustomer, Items: []domain.RequestedItem{item("p1", 1)}},
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), cmd)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	require.Equal(t, 5, inv.stockOf("p1"))
}

func TestPlaceOrder_ReleasesEarlierLinesOnFailure(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 5, "v1")
	inv.add("p2", "2.00", 5, "v1")
	inv.add("p3", "3.00", 1, "v1")
	repo := memory.NewRepository()
	svc := NewService(repo, inv)

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 2), item("p2", 1), item("p3", 2)))
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 5, inv.stockOf("p1"))
	require.Equal(t, 5, inv.stockOf("p2"))
	require.Equal(t, 1, inv.stockOf("p3"))
	require.Equal(t, []string{"p2", "p1"}, inv.released)
	require.Zero(t, repo.Count())
}

func TestPlaceOrder_WrapsUnexpectedInventoryErrors(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 5, "v1")
	inv.add("p2", "1.00", 5, "v1")
	inv.failOn = "p2"
	svc := NewService(memory.NewRepository(), inv)

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 1), item("p2", 1)))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInsufficientStock)
	require.NotErrorIs(t, err, ErrProductNotFound)
	require.Equal(t, 5, inv.stockOf("p1"))
}

func TestPlaceOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "1.00", 10, "v1")
	repo := memory.NewRepository()
	svc := NewService(repo, inv)

	var wg sync.WaitGroup
	var succeeded, rejected atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 6)))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrInsufficientStock):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), succeeded.Load())
	require.Equal(t, int32(1), rejected.Load())
	require.Equal(t, 4, inv.stockOf("p1"))
	require.Equal(t, 1, repo.Count())
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	repo := memory.NewRepository()
	svc := NewService(repo, inv, WithIdempotencyStore(memory.NewIdempotencyStore(0)))

	cmd := customerCmd(item("p1", 2))
	cmd.IdempotencyKey = "key-1"
	first, err := svc.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 8, inv.stockOf("p1"))
	require.Equal(t, 1, repo.Count())

	cmd.Items = []domain.RequestedItem{item("p1", 3)}
	_, err = svc.PlaceOrder(context.Background(), cmd)
	require.ErrorIs(t, err, ErrIdempotencyConflict)
	require.Equal(t, 8, inv.stockOf("p1"))
}

func TestPlaceOrder_IdempotencyKeysAreScopedToBuyer(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	repo := memory.NewRepository()
	svc := NewService(repo, inv, WithIdempotencyStore(memory.NewIdempotencyStore(0)))

	alice := customerCmd(item("p1", 1))
	alice.BuyerID = "alice"
	alice.IdempotencyKey = "cart-1"
	bob := customerCmd(item("p1", 2))
	bob.BuyerID = "bob"
	bob.IdempotencyKey = "cart-1"

	first, err := svc.PlaceOrder(context.Background(), alice)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), bob)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "bob", second.BuyerID)
	require.Equal(t, 7, inv.stockOf("p1"))

	replayed, err := svc.PlaceOrder(context.Background(), bob)
	require.NoError(t, err)
	require.Equal(t, second.ID, replayed.ID)
	require.Equal(t, 2, repo.Count())
}

func TestPlaceOrder_ExpiredIdempotencyKeyPlacesNewOrder(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	keys := memory.NewIdempotencyStore(24 * time.Hour)
	keys.WithClock(func() time.Time { return now })
	svc := NewService(memory.NewRepository(), inv, WithIdempotencyStore(keys), WithClock(func() time.Time { return now }))

	cmd := customerCmd(item("p1", 1))
	cmd.IdempotencyKey = "weekly"
	first, err := svc.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)
	cmd.Items = []domain.RequestedItem{item("p1", 3)}
	second, err := svc.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 6, inv.stockOf("p1"))
}

func TestPlaceOrder_PublishesEventWithoutFailingOnPublisherError(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(memory.NewRepository(), inv, WithEventPublisher(pub))

	order, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 1)))
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	require.Equal(t, order.ID, pub.events[0].OrderID)
	require.Equal(t, "store.order.placed", pub.events[0].EventName())
}

func TestGetOrder_HidesOtherBuyersOrders(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	svc := NewService(memory.NewRepository(), inv)

	order, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 1)))
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), identity.Identity{UserID: "buyer-1", Role: identity.RoleCustomer}, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(context.Background(), identity.Identity{UserID: "buyer-2", Role: identity.RoleCustomer}, order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetOrder(context.Background(), identity.Identity{UserID: "buyer-1"}, "nope")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders_ReturnsOnlyCallersOrders(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	svc := NewService(memory.NewRepository(), inv)

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 1)))
	require.NoError(t, err)
	other := customerCmd(item("p1", 1))
	other.BuyerID = "buyer-2"
	_, err = svc.PlaceOrder(context.Background(), other)
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background(), identity.Identity{UserID: "buyer-1", Role: identity.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "buyer-1", orders[0].BuyerID)
}

func TestListVendorOrders_TrimsToVendorLines(t *testing.T) {
	inv := newFakeInventory()
	inv.add("p1", "2.00", 10, "v1")
	inv.add("p2", "5.00", 10, "v2")
	svc := NewService(memory.NewRepository(), inv, WithVendorCatalog(inv))

	_, err := svc.PlaceOrder(context.Background(), customerCmd(item("p1", 2), item("p2", 1)))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(context.Background(), customerCmd(item("p2", 1)))
	require.NoError(t, err)

	vendor := identity.Identity{UserID: "owner-v1", Role: identity.RoleVendor}
	orders, err := svc.ListVendorOrders(context.Background(), vendor, "v1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	require.Equal(t, "p1", orders[0].Items[0].ProductID)
	require.True(t, decimal.RequireFromString("4.00").Equal(orders[0].TotalAmount))

	_, err = svc.ListVendorOrders(context.Background(), vendor, "v2")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListVendorOrders(context.Background(), identity.Identity{UserID: "owner-v1", Role: identity.RoleCustomer}, "v1")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListVendorOrders(context.Background(), vendor, "v9")
	require.ErrorIs(t, err, ErrVendorNotFound)

	delete(inv.products, "p1")
	orders, err = svc.ListVendorOrders(context.Background(), vendor, "v1")
	require.NoError(t, err)
	require.Len(t, orders, 1, "history outlives the product")
	require.Equal(t, "v1", orders[0].Items[0].VendorID)
}
