package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory vendor store enforcing the same uniqueness rules as the SQL schema.
type Repository struct {
	mu      sync.RWMutex
	vendors map[string]domain.Vendor
}

func NewRepository() *Repository {
	return &Repository{vendors: map[string]domain.Vendor{}}
}

func (r *Repository) Create(_ context.Context, vendor *domain.Vendor) (*domain.Vendor, error) {
	if vendor == nil {
		return nil, errors.New("vendor is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vendors {
		if existing.UserID == vendor.UserID {
			return nil, ports.ErrDuplicateUser
		}
		if existing.StoreName == vendor.StoreName {
			return nil, ports.ErrDuplicateStoreName
		}
	}
	r.vendors[vendor.ID] = *vendor
	copy := *vendor
	return &copy, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vendors[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &v, nil
}

func (r *Repository) GetByUser(_ context.Context, userID string) (*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vendors {
		if v.UserID == userID {
			found := v
			return &found, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		copy := v
		list = append(list, &copy)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}
