package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingBuyer     = errors.New("buyer id is required")
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrMissingProductID = errors.New("product id is required")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativePrice    = errors.New("unit price must not be negative")
)

// RequestedItem is one (product, quantity) pair as submitted by the buyer.
type RequestedItem struct {
	ProductID string
	Quantity  int
}

// Validate checks the shape of a single requested line.
func (r RequestedItem) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrMissingProductID
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateRequest checks a full order request before any stock is touched.
func ValidateRequest(items []RequestedItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LineItem is the immutable snapshot of one purchased product. VendorID is the
// product's owner at purchase time and survives later catalog changes.
type LineItem struct {
	ID        string
	ProductID string
	VendorID  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order models a placed marketplace order. It has no mutators.
type Order struct {
	ID          string
	BuyerID     string
	Items       []LineItem
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// NewOrder validates the line items and derives the total from them.
func NewOrder(id, buyerID string, items []LineItem, createdAt time.Time) (*Order, error) {
	if strings.TrimSpace(buyerID) == "" {
		return nil, ErrMissingBuyer
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	snapshot := make([]LineItem, len(items))
	copy(snapshot, items)
	for _, item := range snapshot {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, ErrMissingProductID
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return nil, ErrNegativePrice
		}
	}
	return &Order{
		ID:          id,
		BuyerID:     buyerID,
		Items:       snapshot,
		TotalAmount: SumLineItems(snapshot),
		CreatedAt:   createdAt,
	}, nil
}

// SumLineItems returns Σ unit price × quantity.
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// VendorIDs lists the distinct vendors whose products the order contains, in first-seen order.
func (o *Order) VendorIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if item.VendorID == "" {
			continue
		}
		if _, ok := seen[item.VendorID]; ok {
			continue
		}
		seen[item.VendorID] = struct{}{}
		ids = append(ids, item.VendorID)
	}
	return ids
}

// ForVendor returns the vendor's share of the order: only its lines, totalled again.
// It returns nil when the vendor sold nothing in this order.
func (o *Order) ForVendor(vendorID string) *Order {
	lines := make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			lines = append(lines, item)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return &Order{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		Items:       lines,
		TotalAmount: SumLineItems(lines),
		CreatedAt:   o.CreatedAt,
	}
}

// Clone returns a deep copy so adapters never share line item slices.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = make([]LineItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
