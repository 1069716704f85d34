package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/valter-tonon/digimenu/internal/domain"
)

// Client is the HTTP client for the external order service. Calls go through
// a circuit breaker so a struggling order service fails fast instead of
// piling up timeouts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "order-service",
		Timeout: 30 * time.Second,
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// CreateOrder posts the order payload and returns the stable order identify.
// A response without an identify is a protocol failure, not a success.
func (c *Client) CreateOrder(ctx context.Context, order *domain.OrderRequest) (string, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, "/api/v1/orders", payload)
	})
	if err != nil {
		return "", err
	}

	identify, err := ParseOrderIdentify(body)
	if err != nil {
		return "", err
	}
	return identify, nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order service response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("order service returned %d: %s", resp.StatusCode, serviceMessage(body))
	}
	return body, nil
}

// serviceMessage pulls the human-readable message out of an error response
// body, falling back to the raw body.
func serviceMessage(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
