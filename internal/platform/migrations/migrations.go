package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&vendorRecord{},
		&productRecord{},
		&orderRecord{},
		&lineItemRecord{},
		&idempotencyRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:64"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;size:16;not null;default:customer"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	UserID    string    `gorm:"column:user_id;size:64;index;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Vendor schema mirrors the vendors Postgres adapter.
type vendorRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	UserID      string    `gorm:"column:user_id;size:64;uniqueIndex"`
	StoreName   string    `gorm:"column:store_name;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`
	Address     string    `gorm:"column:address"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (vendorRecord) TableName() string { return "vendors" }

// Product schema mirrors the catalog Postgres adapter. The check constraint backs the conditional decrement.
type productRecord struct {
	ID            string          `gorm:"primaryKey;column:id;size:64"`
	VendorID      string          `gorm:"column:vendor_id;size:64;index"`
	Name          string          `gorm:"column:name"`
	Description   string          `gorm:"column:description;type:text"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	StockQuantity int             `gorm:"column:stock_quantity;check:chk_products_stock_nonnegative,stock_quantity >= 0"`
	ImageURL      string          `gorm:"column:image_url"`
	ImageID       string          `gorm:"column:image_id"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the store Postgres adapter.
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

// Idempotency schema mirrors the store idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
