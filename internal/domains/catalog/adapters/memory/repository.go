package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog. Stock changes happen under the write lock,
// which makes each decrement a compare-and-set.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.ID == "" {
		return nil, errors.New("product id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := product.Clone()
	if existing, ok := r.products[product.ID]; ok {
		stored.StockQuantity = existing.StockQuantity
		stored.CreatedAt = existing.CreatedAt
	}
	r.products[product.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) SetStock(_ context.Context, id string, quantity int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := product.SetStock(quantity); err != nil {
		return nil, err
	}
	return product.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *Repository) ListByVendor(_ context.Context, vendorID string) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.VendorID == vendorID }), nil
}

func (r *Repository) DecrementStock(_ context.Context, id string, quantity int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if !product.Decrement(quantity) {
		return nil, &ports.StockShortage{ProductID: id, Requested: quantity, Available: product.StockQuantity}
	}
	return product.Clone(), nil
}

func (r *Repository) IncrementStock(_ context.Context, id string, quantity int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := product.Increment(quantity); err != nil {
		return nil, err
	}
	return product.Clone(), nil
}

func (r *Repository) filter(keep func(*domain.Product) bool) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			list = append(list, p.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}
