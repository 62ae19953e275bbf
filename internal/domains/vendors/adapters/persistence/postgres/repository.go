package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
	platformpostgres "github.com/Apurer/go-gin-marketplace/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists vendors in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&vendorRecord{})
	}
	return repo
}

type vendorRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	UserID      string    `gorm:"column:user_id;size:64;uniqueIndex"`
	StoreName   string    `gorm:"column:store_name;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`
	Address     string    `gorm:"column:address"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (vendorRecord) TableName() string { return "vendors" }

// Create inserts the vendor; unique index violations are reported as the matching port error.
func (r *Repository) Create(ctx context.Context, vendor *domain.Vendor) (*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, errors.New("vendor is nil")
	}
	record := toRecord(vendor)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return nil, r.duplicateCause(ctx, vendor)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByUser(ctx context.Context, userID string) (*domain.Vendor, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []vendorRecord
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	vendors := make([]*domain.Vendor, 0, len(records))
	for i := range records {
		vendors = append(vendors, records[i].toDomain())
	}
	return vendors, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Vendor, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record vendorRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) duplicateCause(ctx context.Context, vendor *domain.Vendor) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&vendorRecord{}).Where("store_name = ?", vendor.StoreName).Count(&count).Error; err == nil && count > 0 {
		return ports.ErrDuplicateStoreName
	}
	return ports.ErrDuplicateUser
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres vendor repository not configured")
	}
	return nil
}

func toRecord(v *domain.Vendor) vendorRecord {
	return vendorRecord{
		ID:          v.ID,
		UserID:      v.UserID,
		StoreName:   v.StoreName,
		Description: v.Description,
		Address:     v.Address,
		CreatedAt:   v.CreatedAt,
	}
}

func (r vendorRecord) toDomain() *domain.Vendor {
	return &domain.Vendor{
		ID:          r.ID,
		UserID:      r.UserID,
		StoreName:   r.StoreName,
		Description: r.Description,
		Address:     r.Address,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}
