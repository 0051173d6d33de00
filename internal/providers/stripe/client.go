// Package stripe creates hosted checkout sessions with the payment
// provider. Payment completion flows back through the signed webhook, never
// through this client.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// CheckoutParams carries the credit package the buyer selected. Plan,
// credits, and buyer id ride along as session metadata so the completion
// webhook can apply the purchase.
type CheckoutParams struct {
	Plan       string
	Amount     int64 // major currency units
	Credits    int64
	BuyerID    string
	SuccessURL string
	CancelURL  string
}

// Session is the subset of the provider's checkout session this service uses.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutCreator starts a hosted checkout session.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*Session, error)
}

// Options configures the API client.
type Options struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a thin client for the payment provider's REST API.
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewClient validates options and applies defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{secretKey: opts.SecretKey, baseURL: baseURL, client: client}, nil
}

// CreateCheckoutSession creates a payment-mode session with one line item
// priced at params.Amount in usd.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount*100, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Plan)
	form.Set("metadata[plan]", params.Plan)
	form.Set("metadata[credits]", strconv.FormatInt(params.Credits, 10))
	form.Set("metadata[buyerId]", params.BuyerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("create checkout session: unexpected status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.URL == "" {
		return nil, errors.New("checkout session has no url")
	}
	return &session, nil
}
