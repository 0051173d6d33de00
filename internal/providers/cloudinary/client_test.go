package cloudinary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPublicIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/resources/search" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			t.Fatalf("basic auth = %q %q %v", user, pass, ok)
		}
		var payload struct {
			Expression string `json:"expression"`
			MaxResults int    `json:"max_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Expression != "folder=imaginify AND sunset" {
			t.Fatalf("expression = %q", payload.Expression)
		}
		if payload.MaxResults != 500 {
			t.Fatalf("max_results = %d", payload.MaxResults)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resources":[{"public_id":"imaginify/a"},{"public_id":"imaginify/b"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ids, err := client.SearchPublicIDs(context.Background(), "sunset")
	if err != nil {
		t.Fatalf("SearchPublicIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "imaginify/a" || ids[1] != "imaginify/b" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestSearchPublicIDsEmptyQueryScopesToFolder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Expression string `json:"expression"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Expression != "folder=imaginify" {
			t.Fatalf("expression = %q", payload.Expression)
		}
		_, _ = w.Write([]byte(`{"resources":[]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ids, err := client.SearchPublicIDs(context.Background(), "  ")
	if err != nil {
		t.Fatalf("SearchPublicIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(Options{CloudName: "demo"}); err == nil {
		t.Fatal("expected error without full credentials")
	}
}
