package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

func seed(t *testing.T, repo *Repository, id string, stock int) {
	t.Helper()
	p, err := domain.NewProduct(id, "v1", "Lamp", "Desk lamp", decimal.RequireFromString("19.90"), stock)
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), p)
	require.NoError(t, err)
}

func TestDecrementStock_ConcurrentCallersNeverOversell(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, "p1", 10)

	var wg sync.WaitGroup
	var ok, short atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DecrementStock(context.Background(), "p1", 3)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ports.ErrInsufficientStock):
				short.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(3), ok.Load())
	require.Equal(t, int32(17), short.Load())
	p, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 1, p.StockQuantity)
}

func TestDecrementStock_ReportsAvailable(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, "p1", 2)

	_, err := repo.DecrementStock(context.Background(), "p1", 5)
	var shortage *ports.StockShortage
	require.True(t, errors.As(err, &shortage))
	require.Equal(t, 2, shortage.Available)

	_, err = repo.DecrementStock(context.Background(), "missing", 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSave_KeepsStockOfExistingProduct(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, "p1", 5)
	_, err := repo.DecrementStock(context.Background(), "p1", 2)
	require.NoError(t, err)

	stale, err := domain.NewProduct("p1", "v1", "Lamp v2", "Desk lamp", decimal.NewFromInt(25), 5)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), stale)
	require.NoError(t, err)
	require.Equal(t, "Lamp v2", saved.Name)
	require.Equal(t, 3, saved.StockQuantity)

	updated, err := repo.SetStock(context.Background(), "p1", 9)
	require.NoError(t, err)
	require.Equal(t, 9, updated.StockQuantity)
}
