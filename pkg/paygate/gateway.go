// Package paygate moves prize and fee money to external accounts.
// It mirrors the gateway pattern used for other outbound integrations:
// one small interface, an HTTP implementation, and a mock for dev and
// tests.
package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Gateway executes a single transfer of minor currency units to a
// recipient account. Implementations must be synchronous: a nil error
// means the transfer completed.
type Gateway interface {
	Transfer(ctx context.Context, recipient string, amount int64, reference string) (string, error)
}

// HTTPGateway is the production payment rail client.
type HTTPGateway struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewHTTPGateway creates a gateway backed by the payment rail API.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type transferRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type transferResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// Transfer sends amount to recipient. The reference is an idempotency
// key on the payment rail side.
func (g *HTTPGateway) Transfer(ctx context.Context, recipient string, amount int64, reference string) (string, error) {
	body, err := json.Marshal(transferRequest{Recipient: recipient, Amount: amount, Reference: reference})
	if err != nil {
		return "", fmt.Errorf("paygate: failed to encode transfer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("paygate: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paygate: transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("paygate: payment rail returned status %d", resp.StatusCode)
	}

	var out transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("paygate: failed to decode response: %w", err)
	}
	if out.Status != "SUCCESS" {
		return "", fmt.Errorf("paygate: transfer ended in status %q", out.Status)
	}
	return out.TransactionID, nil
}

// MockGateway completes every transfer locally. Used in mock mode and
// in tests that do not care about payment failures.
type MockGateway struct{}

// NewMockGateway creates a gateway that always succeeds.
func NewMockGateway() *MockGateway { return &MockGateway{} }

// Transfer returns a synthetic transaction id.
func (g *MockGateway) Transfer(_ context.Context, _ string, _ int64, _ string) (string, error) {
	return "mock-" + uuid.NewString(), nil
}
