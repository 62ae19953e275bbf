package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

type normalizedPlaceOrder struct {
	BuyerID string               `json:"buyerId"`
	Items   []normalizedLineItem `json:"items"`
}

type normalizedLineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// FingerprintPlaceOrder builds a deterministic hash of the order request (excluding the idempotency key).
// Line order is significant because line items are snapshotted in request order.
func FingerprintPlaceOrder(cmd ports.PlaceOrderCommand) (string, error) {
	normalized := normalizedPlaceOrder{
		BuyerID: strings.TrimSpace(cmd.BuyerID),
		Items:   make([]normalizedLineItem, 0, len(cmd.Items)),
	}
	for _, item := range cmd.Items {
		normalized.Items = append(normalized.Items, normalizedLineItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// scopedIdempotencyKey namespaces a client key by buyer so two buyers never share a record.
// The client part is hashed to keep the stored key bounded.
func scopedIdempotencyKey(buyerID, key string) string {
	sum := sha256.Sum256([]byte(key))
	return strings.TrimSpace(buyerID) + ":" + hex.EncodeToString(sum[:])
}
