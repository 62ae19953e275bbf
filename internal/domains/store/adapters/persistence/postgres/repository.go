package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their line items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &lineItemRecord{})
	}
	return repo
}

// orderRecord keeps a denormalized vendor_ids array so vendor views can use an ANY lookup.
type orderRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	BuyerID     string          `gorm:"column:buyer_id;size:64;index"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2)"`
	VendorIDs   pq.StringArray  `gorm:"column:vendor_ids;type:text[]"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

type lineItemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:64"`
	OrderID   string          `gorm:"column:order_id;size:64;index"`
	Position  int             `gorm:"column:position"`
	ProductID string          `gorm:"column:product_id;size:64;index"`
	VendorID  string          `gorm:"column:vendor_id;size:64;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (lineItemRecord) TableName() string { return "order_line_items" }

// Create inserts the order and all of its line items in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record, items := toRecords(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order with its line items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	orders, err := r.attachItems(ctx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, records)
}

// ListByVendor returns orders with at least one line sold by vendorID, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("? = ANY(vendor_ids)", vendorID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, records)
}

func (r *Repository) attachItems(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	if len(records) == 0 {
		return orders, nil
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var items []lineItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.LineItem, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item.toDomain())
	}
	for _, rec := range records {
		orders = append(orders, &domain.Order{
			ID:          rec.ID,
			BuyerID:     rec.BuyerID,
			Items:       byOrder[rec.ID],
			TotalAmount: rec.TotalAmount,
			CreatedAt:   rec.CreatedAt.UTC(),
		})
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecords(order *domain.Order) (orderRecord, []lineItemRecord) {
	rec := orderRecord{
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		TotalAmount: order.TotalAmount,
		VendorIDs:   pq.StringArray(order.VendorIDs()),
		CreatedAt:   order.CreatedAt,
	}
	items := make([]lineItemRecord, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, lineItemRecord{
			ID:        item.ID,
			OrderID:   order.ID,
			Position:  i,
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return rec, items
}

func (r lineItemRecord) toDomain() domain.LineItem {
	return domain.LineItem{
		ID:        r.ID,
		ProductID: r.ProductID,
		VendorID:  r.VendorID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
}
