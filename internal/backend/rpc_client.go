package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"pricewatch/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient implements Client using HTTP JSON-RPC 2.0. Transport-level
// failures are retried with exponential backoff; errors returned by the
// backend itself are not.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	requestID   atomic.Uint64
	observe     func(command string, d time.Duration, err error)
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithObserver installs a per-command latency observer.
func WithObserver(fn func(command string, d time.Duration, err error)) ClientOption {
	return func(c *HTTPClient) {
		c.observe = fn
	}
}

// NewHTTPClient creates an invoke-boundary client for the given endpoint.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

// rpcRequest represents a JSON-RPC 2.0 request. The invoke boundary uses
// a single argument object as params.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *InvokeError    `json:"error,omitempty"`
}

// InvokeError is an error payload returned by the backend.
type InvokeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
}

// Invoke performs one command with retries and exponential backoff.
func (c *HTTPClient) Invoke(ctx context.Context, command string, args any, result any) error {
	start := time.Now()
	err := c.call(ctx, command, args, result)
	if c.observe != nil {
		c.observe(command, time.Since(start), err)
	}
	return err
}

func (c *HTTPClient) call(ctx context.Context, command string, args any, result any) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  command,
		Params:  args,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}

		if rpcResp.Error != nil {
			// Backend rejections are not retried
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// ListProducts retrieves all products ordered by sort_order.
func (c *HTTPClient) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := c.Invoke(ctx, CmdListProducts, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListRetailerLinks retrieves a product's retailer links ordered by sort_order.
func (c *HTTPClient) ListRetailerLinks(ctx context.Context, productID string) ([]*domain.ProductRetailerLink, error) {
	args := map[string]string{"product_id": productID}
	var links []*domain.ProductRetailerLink
	if err := c.Invoke(ctx, CmdListRetailerLinks, args, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// ListChecks retrieves a product's availability checks for a time range.
func (c *HTTPClient) ListChecks(ctx context.Context, productID string, r domain.TimeRange) ([]*domain.AvailabilityCheck, error) {
	args := map[string]string{
		"product_id": productID,
		"range":      string(r),
	}
	var checks []*domain.AvailabilityCheck
	if err := c.Invoke(ctx, CmdListChecks, args, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// LatestCheck retrieves a product's most recent check, nil when none exists.
func (c *HTTPClient) LatestCheck(ctx context.Context, productID string) (*domain.AvailabilityCheck, error) {
	args := map[string]string{"product_id": productID}
	var check *domain.AvailabilityCheck
	if err := c.Invoke(ctx, CmdLatestCheck, args, &check); err != nil {
		return nil, err
	}
	return check, nil
}

// reorderArgs is the wire form of a reorder request. Items keep the
// order of the reordered list.
type reorderArgs struct {
	ProductID string               `json:"product_id,omitempty"`
	Items     []domain.ReorderItem `json:"items"`
}

// ReorderProducts persists a new product ordering and returns the
// authoritative list.
func (c *HTTPClient) ReorderProducts(ctx context.Context, items []domain.ReorderItem) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := c.Invoke(ctx, CmdReorderProducts, reorderArgs{Items: items}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ReorderRetailerLinks persists a new link ordering within a product.
func (c *HTTPClient) ReorderRetailerLinks(ctx context.Context, productID string, items []domain.ReorderItem) ([]*domain.ProductRetailerLink, error) {
	var links []*domain.ProductRetailerLink
	args := reorderArgs{ProductID: productID, Items: items}
	if err := c.Invoke(ctx, CmdReorderRetailerLinks, args, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// RunBulkCheck checks every listed product and returns a per-item summary.
func (c *HTTPClient) RunBulkCheck(ctx context.Context, runID string, productIDs []string) (*domain.BulkCheckSummary, error) {
	args := map[string]any{
		"run_id":      runID,
		"product_ids": productIDs,
	}
	var summary domain.BulkCheckSummary
	if err := c.Invoke(ctx, CmdRunBulkCheck, args, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ConfirmVerification reports a completed manual verification for a URL.
func (c *HTTPClient) ConfirmVerification(ctx context.Context, url string) error {
	args := map[string]string{"url": url}
	return c.Invoke(ctx, CmdConfirmVerification, args, nil)
}
