// Package clerk talks to the identity provider's backend API. The only call
// this service makes is the metadata write-back after a user is first
// synced, so the local id can travel inside the provider's session tokens.
package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// MetadataWriter records the local user id in the provider's public metadata.
type MetadataWriter interface {
	SetUserID(ctx context.Context, clerkID, localUserID string) error
}

// Options configures the API client.
type Options struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a thin client for the provider's backend API.
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewClient validates options and applies defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("clerk secret key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.clerk.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{secretKey: opts.SecretKey, baseURL: baseURL, client: client}, nil
}

type metadataPatch struct {
	PublicMetadata map[string]string `json:"public_metadata"`
}

// SetUserID patches the provider user's public metadata with the local id.
func (c *Client) SetUserID(ctx context.Context, clerkID, localUserID string) error {
	payload := metadataPatch{PublicMetadata: map[string]string{"userId": localUserID}}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode metadata patch: %w", err)
	}

	endpoint := c.baseURL + "/users/" + clerkID + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("patch user metadata: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("patch user metadata: unexpected status %d", resp.StatusCode)
	}
	return nil
}
