package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"spotgateway/internal/auth"
)

// Client is a REST client for the spot exchange API. Requests that
// touch account state are signed; market-data requests are not.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	signer      *auth.Signer
	rateLimiter *RateLimiter
	maxRetries  int
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets the retry budget for retryable exchange errors
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

// WithRateLimit sets the outbound request rate
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(requestsPerSecond, burst)
	}
}

// NewClient creates a REST client. The signer may be nil for clients
// that only serve public market-data endpoints.
func NewClient(baseURL string, signer *auth.Signer, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		signer:      signer,
		rateLimiter: NewRateLimiter(10, 5),
		maxRetries:  3,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Ping checks connectivity and, through the signed account call elsewhere,
// credential validity. /api/v3/ping itself is unauthenticated.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/api/v3/ping", nil, false)
	return ErrorWithContext(err, "Ping")
}

// GetTickerPrice fetches the current price for a symbol
func (c *Client) GetTickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if symbol == "" {
		return decimal.Zero, fmt.Errorf("symbol is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/ticker/price", params, false)
	if err != nil {
		return decimal.Zero, ErrorWithContext(err, "GetTickerPrice")
	}

	var ticker TickerPrice
	if err := json.Unmarshal(body, &ticker); err != nil {
		return decimal.Zero, ErrorWithContext(err, "GetTickerPrice")
	}

	return ticker.Price, nil
}

// GetExchangeInfo fetches trading rules. With a symbol the response is
// narrowed to that symbol's entry.
func (c *Client) GetExchangeInfo(ctx context.Context, symbol string) (*ExchangeInfo, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/exchangeInfo", params, false)
	if err != nil {
		return nil, ErrorWithContext(err, "GetExchangeInfo")
	}

	var info ExchangeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, ErrorWithContext(err, "GetExchangeInfo")
	}

	return &info, nil
}

// PlaceOrder submits a new order
func (c *Client) PlaceOrder(ctx context.Context, req *NewOrderRequest) (*OrderResponse, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("signer required for PlaceOrder")
	}
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Side == "" {
		return nil, fmt.Errorf("side is required")
	}
	if req.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	if req.Quantity.IsZero() && req.QuoteOrderQty.IsZero() {
		return nil, fmt.Errorf("quantity or quoteOrderQty is required")
	}
	if req.Type == "LIMIT" && req.Price.IsZero() {
		return nil, fmt.Errorf("price is required for LIMIT orders")
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("type", req.Type)

	// Decimal fields serialize from their exact string representation
	if !req.Quantity.IsZero() {
		params.Set("quantity", req.Quantity.String())
	}
	if !req.QuoteOrderQty.IsZero() {
		params.Set("quoteOrderQty", req.QuoteOrderQty.String())
	}
	if !req.Price.IsZero() {
		params.Set("price", req.Price.String())
	}
	if req.TimeInForce != "" {
		params.Set("timeInForce", req.TimeInForce)
	}
	if req.NewClientOrderID != "" {
		params.Set("newClientOrderId", req.NewClientOrderID)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v3/order", params, true)
	if err != nil {
		return nil, ErrorWithContext(err, "PlaceOrder")
	}

	var orderResp OrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, ErrorWithContext(err, "PlaceOrder")
	}

	return &orderResp, nil
}

// CancelOrder cancels an active order
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*CancelResponse, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("signer required for CancelOrder")
	}
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if orderID <= 0 {
		return nil, fmt.Errorf("orderID is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.doRequest(ctx, http.MethodDelete, "/api/v3/order", params, true)
	if err != nil {
		return nil, ErrorWithContext(err, "CancelOrder")
	}

	var cancelResp CancelResponse
	if err := json.Unmarshal(body, &cancelResp); err != nil {
		return nil, ErrorWithContext(err, "CancelOrder")
	}

	return &cancelResp, nil
}

// GetAccount fetches account information including balances
func (c *Client) GetAccount(ctx context.Context) (*AccountResponse, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("signer required for GetAccount")
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/account", nil, true)
	if err != nil {
		return nil, ErrorWithContext(err, "GetAccount")
	}

	var account AccountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, ErrorWithContext(err, "GetAccount")
	}

	return &account, nil
}

// doRequest executes a request with rate limiting and bounded retries on
// retryable exchange errors. The exchange expects all parameters in the
// query string, even for POST.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, signed bool) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		if params == nil {
			params = url.Values{}
		}

		requestParams := params
		if signed {
			if c.signer == nil {
				return nil, fmt.Errorf("signer required for signed request")
			}
			requestParams = c.signer.SignedQuery(params)
		}

		requestURL := c.baseURL + path
		if len(requestParams) > 0 {
			requestURL += "?" + requestParams.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		if c.signer != nil {
			req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				c.waitForRetry(ctx, attempt)
				continue
			}
			return nil, err
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				c.waitForRetry(ctx, attempt)
				continue
			}
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		resp.Body = io.NopCloser(bytes.NewReader(respBody))
		apiErr := ParseAPIError(resp)
		lastErr = apiErr

		if attempt < c.maxRetries && IsRetryableError(apiErr) {
			c.waitForRetry(ctx, attempt)
			continue
		}

		return nil, apiErr
	}

	return nil, lastErr
}

// waitForRetry sleeps with exponential backoff between attempts
func (c *Client) waitForRetry(ctx context.Context, attempt int) {
	backoff := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
	select {
	case <-time.After(backoff):
	case <-ctx.Done():
	}
}
