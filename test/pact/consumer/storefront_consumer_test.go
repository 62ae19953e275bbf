//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-marketplace/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type lineItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type order struct {
	ID          string     `json:"id"`
	BuyerID     string     `json:"buyerId"`
	Items       []lineItem `json:"items"`
	TotalAmount string     `json:"totalAmount"`
}

type placeOrderResponse struct {
	Message string `json:"message"`
	Order   order  `json:"order"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status      int
	problemType string
	detail      string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.problemType, e.detail, e.status)
}

func TestStorefrontOrdersContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	bearer := matchers.Regex("Bearer "+pacttest.ConsumerToken, "^Bearer .+$")
	moneyPattern := "^\\d+\\.\\d{2}$"

	pact.AddInteraction().
		Given(pacttest.StateProductInStock).
		UponReceiving("a customer order for an in-stock product").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", bearer)
			b.JSONBody(pacttest.ExampleOrderRequest(pacttest.ProductID, 2))
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.Like("Order placed successfully!"),
				"order": matchers.Map{
					"id":      matchers.Like("0d9c6a3e-7a51-4c55-9b1a-3c1f2b0e9d11"),
					"buyerId": matchers.Like("5b0f7a43-2e0d-4c1b-8a11-6f3e0a9d2c44"),
					"items": matchers.EachLike(matchers.Map{
						"id":        matchers.Like("8e2d4b7c-1f3a-4e6d-9c0b-5a7f2e1d3c88"),
						"productId": matchers.S(pacttest.ProductID),
						"quantity":  matchers.Like(2),
						"unitPrice": matchers.Term(pacttest.UnitPrice, moneyPattern),
					}, 1),
					"totalAmount": matchers.Term("25.00", moneyPattern),
					"createdAt":   matchers.Like("2026-01-02T15:04:05Z"),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductSoldOut).
		UponReceiving("a customer order for a sold-out product").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", bearer)
			b.JSONBody(pacttest.ExampleOrderRequest(pacttest.ProductID, 1))
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-stock"),
				"title":  matchers.S("Insufficient Stock"),
				"status": matchers.Like(http.StatusBadRequest),
				"detail": matchers.S("Insufficient stock for product: " + pacttest.ProductID),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a customer order for a missing product").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", bearer)
			b.JSONBody(pacttest.ExampleOrderRequest(pacttest.MissingProductID, 1))
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		placed, err := client.PlaceOrder(ctx, []orderItem{{ProductID: pacttest.ProductID, Quantity: 2}})
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if placed.Order.ID == "" || len(placed.Order.Items) == 0 {
			return fmt.Errorf("expected a recorded order, got %+v", placed)
		}

		var apiErr apiError
		_, err = client.PlaceOrder(ctx, []orderItem{{ProductID: pacttest.ProductID, Quantity: 1}})
		if !errors.As(err, &apiErr) || apiErr.problemType != "/problems/insufficient-stock" {
			return fmt.Errorf("expected insufficient stock problem, got %v", err)
		}

		_, err = client.PlaceOrder(ctx, []orderItem{{ProductID: pacttest.MissingProductID, Quantity: 1}})
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for %s, got %v", pacttest.MissingProductID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		token:      pacttest.ConsumerToken,
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *orderClient) PlaceOrder(ctx context.Context, items []orderItem) (*placeOrderResponse, error) {
	body, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload placeOrderResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, problemType: problem.Type, detail: problem.Detail}
}
