// Package vrfclient talks to the verifiable-randomness oracle. The
// oracle is an external collaborator: the engine submits a request and
// later receives exactly one fulfilment callback per request id on its
// own HTTP surface. Only the request/response contract lives here.
package vrfclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RandomnessRequest carries the parameters of one oracle request. The
// word count is always 1: a draw consumes a single random value.
type RandomnessRequest struct {
	KeyHash          string `json:"keyHash"`
	SubscriptionID   string `json:"subscriptionId"`
	Confirmations    uint16 `json:"confirmations"`
	CallbackGasLimit uint32 `json:"callbackGasLimit"`
	NumWords         uint32 `json:"numWords"`
}

// Requester submits randomness requests and synchronously returns the
// oracle's opaque request identifier.
type Requester interface {
	RequestRandomness(ctx context.Context, req RandomnessRequest) (string, error)
}

// Client is the HTTP oracle client. With Mock set it never leaves the
// process and mints request ids locally, so dev and test environments
// can fulfil draws by hand through the callback endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Mock    bool
	client  *http.Client
}

// NewClient creates an oracle client.
func NewClient(baseURL, apiKey string, mock bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Mock:    mock,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type requestResponse struct {
	RequestID string `json:"requestId"`
}

// RequestRandomness submits a randomness request and returns the
// opaque request id the fulfilment callback will carry.
func (c *Client) RequestRandomness(ctx context.Context, req RandomnessRequest) (string, error) {
	if req.NumWords != 1 {
		return "", fmt.Errorf("vrfclient: word count must be 1, got %d", req.NumWords)
	}

	if c.Mock {
		return uuid.NewString(), nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("vrfclient: failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/requests", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vrfclient: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("vrfclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("vrfclient: oracle returned status %d", resp.StatusCode)
	}

	var out requestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("vrfclient: failed to decode response: %w", err)
	}
	if out.RequestID == "" {
		return "", fmt.Errorf("vrfclient: oracle returned empty request id")
	}
	return out.RequestID, nil
}
