// Package api is the client for the WheelX pricing service. It fetches quotes
// and order status; it never computes routes or prices itself.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production pricing service endpoint.
	DefaultBaseURL = "https://wheelx.fi"

	defaultTimeout = 30 * time.Second

	// The service throttles aggressive clients; stay under its ceiling.
	defaultRate  = 5 // requests per second
	defaultBurst = 10
)

// Error is a non-2xx response from the pricing service.
type Error struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API request failed: %s - %s", e.Status, e.Body)
}

// Client talks to the WheelX pricing service.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a pricing service client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultRate), defaultBurst),
	}
}

// GetQuote requests a quote for a token swap or bridge.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid quote request: %w", err)
	}

	var quoteResp QuoteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/quote", req, &quoteResp); err != nil {
		return nil, err
	}
	return &quoteResp, nil
}

// GetOrderStatus fetches order status by the quote's request ID.
func (c *Client) GetOrderStatus(ctx context.Context, requestID string) (*OrderResponse, error) {
	if requestID == "" {
		return nil, fmt.Errorf("request ID is required")
	}

	var orderResp OrderResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/order/"+requestID, nil, &orderResp); err != nil {
		return nil, err
	}
	return &orderResp, nil
}

// doJSON performs a rate-limited JSON round trip against the service.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var body io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	if err := json.Unmarshal(raw, respBody); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (r *QuoteRequest) validate() error {
	if r.FromToken == "" || r.ToToken == "" {
		return fmt.Errorf("from_token and to_token are required")
	}
	if !common.IsHexAddress(r.FromAddress) {
		return fmt.Errorf("from_address must be a valid address")
	}
	if !common.IsHexAddress(r.ToAddress) {
		return fmt.Errorf("to_address must be a valid address")
	}
	if r.Amount == nil || r.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if r.Slippage != nil && (*r.Slippage < 0 || *r.Slippage > 10000) {
		return fmt.Errorf("slippage must be between 0 and 10000 basis points")
	}
	return nil
}
