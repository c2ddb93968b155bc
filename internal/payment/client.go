// Package payment is a minimal client for the hosted payment gateway: it
// creates checkout sessions and verifies signed webhook deliveries.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/awards-service/internal/config"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// CheckoutSession is the gateway's hosted payment flow handle.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionParams describes a single-line-item checkout request. Metadata is
// opaque to the gateway and echoed back on settlement; it is the join key
// between gateway events and our records.
type SessionParams struct {
	ProductName   string
	Description   string
	AmountCents   int64
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Client talks to the payment gateway REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a gateway client from configuration.
func NewClient(cfg config.PaymentConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession opens a hosted checkout session at the gateway.
func (c *Client) CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewConfigurationError("payment API key not configured")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("customer_email", params.CustomerEmail)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][product_data][description]", params.Description)
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("payment gateway unreachable", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("payment gateway rejected checkout session: %s", strings.TrimSpace(string(body))),
			resp.StatusCode, nil)
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return &session, nil
}
