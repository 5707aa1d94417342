package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/R3E-Network/storefront/pkg/admin"
	"github.com/R3E-Network/storefront/pkg/api"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	UserIDHeader string
	MaxRetries   int
	// RetryBackoff is the wait before the first retry; it doubles per attempt.
	RetryBackoff time.Duration
	HTTPClient   *http.Client
}

// Client calls the storefront HTTP API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userIDHeader string
	maxRetries   int
	backoff      time.Duration
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	TraceID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s: %s", e.Status, e.Code, e.Message)
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	header := cfg.UserIDHeader
	if header == "" {
		header = "x_user_id"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		userIDHeader: header,
		maxRetries:   maxRetries,
		backoff:      backoff,
	}
}

// Do executes a request. callerID, when non-zero, is sent in the user id
// header. 429 and 503 responses are retried with exponential backoff.
func (c *Client) Do(ctx context.Context, method, path string, callerID int64, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	wait := c.backoff
	for attempt := 0; ; attempt++ {
		resp, err := c.do(ctx, method, path, callerID, payload)
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= c.maxRetries {
			return resp, nil
		}
		drain(resp)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func (c *Client) do(ctx context.Context, method, path string, callerID int64, payload []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if callerID != 0 {
		req.Header.Set(c.userIDHeader, strconv.FormatInt(callerID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

func (c *Client) call(ctx context.Context, method, path string, callerID int64, body, target any) error {
	resp, err := c.Do(ctx, method, path, callerID, body)
	if err != nil {
		return err
	}
	return DecodeResponse(resp, target)
}

// DecodeResponse decodes a JSON response into target. Error statuses are
// returned as *APIError.
func DecodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, truncated, err := ReadAllWithLimit(resp.Body, 64<<10)
		if err != nil {
			return fmt.Errorf("read error response body: %w", err)
		}
		apiErr := &APIError{Status: resp.StatusCode, TraceID: resp.Header.Get("X-Trace-ID")}
		var decoded api.ErrorResponse
		if !truncated && json.Unmarshal(body, &decoded) == nil && decoded.Error.Code != "" {
			apiErr.Code = decoded.Error.Code
			apiErr.Message = decoded.Error.Message
			apiErr.Details = decoded.Error.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
			if truncated {
				apiErr.Message += "...(truncated)"
			}
		}
		return apiErr
	}

	if target == nil {
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<20)); err != nil {
			return fmt.Errorf("discard response body: %w", err)
		}
		return nil
	}

	body, err := ReadAllStrict(resp.Body, 8<<20)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RegisterUser calls POST /users.
func (c *Client) RegisterUser(ctx context.Context, email, password string) (api.RegisterUserResponse, error) {
	var out api.RegisterUserResponse
	err := c.call(ctx, http.MethodPost, "/users", 0, api.RegisterUserRequest{Email: email, Password: password}, &out)
	return out, err
}

// GetUser calls GET /users/{id}.
func (c *Client) GetUser(ctx context.Context, id int64) (api.User, error) {
	var out api.User
	err := c.call(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), 0, nil, &out)
	return out, err
}

// RegisterPurchase calls POST /purchases.
func (c *Client) RegisterPurchase(ctx context.Context, userID int64, itemName string, price float64) (api.RegisterPurchaseResponse, error) {
	var out api.RegisterPurchaseResponse
	req := api.RegisterPurchaseRequest{UserID: userID, ItemName: itemName, Price: price}
	err := c.call(ctx, http.MethodPost, "/purchases", 0, req, &out)
	return out, err
}

// GetPurchase calls GET /purchases/{id} as callerID.
func (c *Client) GetPurchase(ctx context.Context, callerID, id int64) (api.Purchase, error) {
	var out api.Purchase
	err := c.call(ctx, http.MethodGet, "/purchases/"+strconv.FormatInt(id, 10), callerID, nil, &out)
	return out, err
}

// ListPurchases calls GET /purchases as callerID.
func (c *Client) ListPurchases(ctx context.Context, callerID int64) (map[int64]api.Purchase, error) {
	var out map[int64]api.Purchase
	err := c.call(ctx, http.MethodGet, "/purchases", callerID, nil, &out)
	return out, err
}

// RegisterPayment calls POST /payments.
func (c *Client) RegisterPayment(ctx context.Context, userID, purchaseID int64) (api.RegisterPaymentResponse, error) {
	var out api.RegisterPaymentResponse
	req := api.RegisterPaymentRequest{UserID: userID, PurchaseID: purchaseID}
	err := c.call(ctx, http.MethodPost, "/payments", 0, req, &out)
	return out, err
}

// GetPayment calls GET /payments/{id} as callerID.
func (c *Client) GetPayment(ctx context.Context, callerID, id int64) (api.Payment, error) {
	var out api.Payment
	err := c.call(ctx, http.MethodGet, "/payments/"+strconv.FormatInt(id, 10), callerID, nil, &out)
	return out, err
}

// ListPayments calls GET /payments as callerID.
func (c *Client) ListPayments(ctx context.Context, callerID int64) (map[int64]api.Payment, error) {
	var out map[int64]api.Payment
	err := c.call(ctx, http.MethodGet, "/payments", callerID, nil, &out)
	return out, err
}

// AdminUsers calls GET /admin/users.
func (c *Client) AdminUsers(ctx context.Context) (map[int64]api.User, error) {
	var out map[int64]api.User
	err := c.call(ctx, http.MethodGet, "/admin/users", 0, nil, &out)
	return out, err
}

// PaidPurchases calls GET /admin/paid_purchases.
func (c *Client) PaidPurchases(ctx context.Context) (admin.PaidPurchases, error) {
	var out admin.PaidPurchases
	err := c.call(ctx, http.MethodGet, "/admin/paid_purchases", 0, nil, &out)
	return out, err
}

// TotalPurchases calls GET /admin/total_purchases.
func (c *Client) TotalPurchases(ctx context.Context) (admin.PurchaseCount, error) {
	var out admin.PurchaseCount
	err := c.call(ctx, http.MethodGet, "/admin/total_purchases", 0, nil, &out)
	return out, err
}

// AuditLog calls GET /admin/audit. limit <= 0 uses the server default.
func (c *Client) AuditLog(ctx context.Context, limit int) (admin.AuditLog, error) {
	path := "/admin/audit"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out admin.AuditLog
	err := c.call(ctx, http.MethodGet, path, 0, nil, &out)
	return out, err
}

// Health calls GET /healthz.
func (c *Client) Health(ctx context.Context) (api.Health, error) {
	var out api.Health
	err := c.call(ctx, http.MethodGet, "/healthz", 0, nil, &out)
	return out, err
}
