// Package cloudinary queries the image CDN's search API. The listing
// endpoint uses it to resolve which stored public ids match a free-text
// query before constraining the local metadata query.
package cloudinary

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

// Searcher resolves public ids matching a free-text expression.
type Searcher interface {
	SearchPublicIDs(ctx context.Context, query string) ([]string, error)
}

// Options configures the API client.
type Options struct {
	CloudName  string
	APIKey     string
	APISecret  string
	BaseURL    string
	Folder     string
	HTTPClient *http.Client
}

// Client is a thin client for the CDN's admin search API.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	folder    string
	client    *http.Client
}

// NewClient validates options and applies defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.CloudName == "" || opts.APIKey == "" || opts.APISecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com/v1_1"
	}
	folder := opts.Folder
	if folder == "" {
		folder = "imaginify"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		cloudName: opts.CloudName,
		apiKey:    opts.APIKey,
		apiSecret: opts.APISecret,
		baseURL:   baseURL,
		folder:    folder,
		client:    client,
	}, nil
}

type searchRequest struct {
	Expression string `json:"expression"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Resources []struct {
		PublicID string `json:"public_id"`
	} `json:"resources"`
}

// SearchPublicIDs runs the folder-scoped search expression and returns the
// matching public ids.
func (c *Client) SearchPublicIDs(ctx context.Context, query string) ([]string, error) {
	expression := "folder=" + c.folder
	if strings.TrimSpace(query) != "" {
		expression += " AND " + query
	}
	payload := searchRequest{Expression: expression, MaxResults: 500}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	endpoint := c.baseURL + "/" + c.cloudName + "/resources/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search resources: unexpected status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]string, 0, len(out.Resources))
	for _, res := range out.Resources {
		ids = append(ids, res.PublicID)
	}
	return ids, nil
}
