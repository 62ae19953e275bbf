//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "marketplace-api"
	ConsumerName = "storefront-web"

	StateProductInStock = "product pact-mug has 10 units in stock"
	StateProductSoldOut = "product pact-mug is sold out"
	StateProductMissing = "no product pact-ghost exists"
)

const (
	ProductID        = "pact-mug"
	MissingProductID = "pact-ghost"
	VendorID         = "pact-vendor"
	UnitPrice        = "12.50"
	InitialStock     = 10

	// ConsumerToken is what the consumer sends; the provider swaps in a real token for the seeded buyer.
	ConsumerToken = "pact-consumer-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderRequest is the order body the storefront submits.
func ExampleOrderRequest(productID string, quantity int) map[string]any {
	return map[string]any{
		"items": []map[string]any{{"productId": productID, "quantity": quantity}},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
