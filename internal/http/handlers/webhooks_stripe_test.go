package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/webhook"
)

func newStripeTestApp() *App {
	app := newTestApp()
	app.StripeVerifier = webhook.NewStripeVerifier("whsec_stripe_endpoint")
	return app
}

func signedStripeRequest(app *App, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", strings.NewReader(body))
	r.Header.Set("Stripe-Signature", app.StripeVerifier.Sign([]byte(body), time.Now()))
	return r
}

func completedSessionBody(sessionID string, amount string, metadata map[string]string) string {
	meta, _ := json.Marshal(metadata)
	object := `{"id":"` + sessionID + `","metadata":` + string(meta) + `}`
	if amount != "" {
		object = `{"id":"` + sessionID + `","amount_total":` + amount + `,"metadata":` + string(meta) + `}`
	}
	return `{"type":"checkout.session.completed","data":{"object":` + object + `}}`
}

func TestStripeWebhookBadSignature(t *testing.T) {
	app := newStripeTestApp()
	body := completedSessionBody("cs_1", "4000", map[string]string{"buyerId": "u1", "credits": "120"})
	r := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", strings.NewReader(body))
	r.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()

	app.StripeWebhook(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := decodeError(t, rec); code != "bad_signature" {
		t.Fatalf("error code = %q, want bad_signature", code)
	}
}

func TestStripeWebhookIgnoresOtherEvents(t *testing.T) {
	app := newStripeTestApp()
	called := false
	app.Transactions = &fakeTransactions{
		createFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
			called = true
			return tx, true, nil
		},
	}

	body := `{"type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`
	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, signedStripeRequest(app, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if called {
		t.Fatal("transaction store called for an ignored event")
	}
}

func TestStripeWebhookCompletedGrantsCredits(t *testing.T) {
	app := newStripeTestApp()
	var booked *domain.Transaction
	app.Transactions = &fakeTransactions{
		createFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
			booked = tx
			out := *tx
			out.ID = "22222222-2222-2222-2222-222222222222"
			out.CreatedAt = time.Now()
			return &out, true, nil
		},
	}

	body := completedSessionBody("cs_test_1", "4000", map[string]string{
		"plan":    "Pro Package",
		"credits": "120",
		"buyerId": "11111111-1111-1111-1111-111111111111",
	})
	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, signedStripeRequest(app, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if booked == nil {
		t.Fatal("transaction store never called")
	}
	if booked.StripeID != "cs_test_1" || booked.AmountCents != 4000 || booked.Credits != 120 {
		t.Fatalf("booked = %+v", booked)
	}
	if booked.BuyerID != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("buyer = %q", booked.BuyerID)
	}

	var resp struct {
		Transaction *transactionDTO `json:"transaction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Transaction == nil || resp.Transaction.Amount != 40 {
		t.Fatalf("transaction = %+v", resp.Transaction)
	}
}

func TestStripeWebhookRedeliveryIsNoop(t *testing.T) {
	app := newStripeTestApp()
	calls := 0
	app.Transactions = &fakeTransactions{
		createFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
			calls++
			return nil, false, nil
		},
	}

	body := completedSessionBody("cs_test_1", "4000", map[string]string{
		"credits": "120",
		"buyerId": "11111111-1111-1111-1111-111111111111",
	})
	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, signedStripeRequest(app, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dup, _ := resp["duplicate"].(bool); !dup {
		t.Fatalf("response = %v, want duplicate:true", resp)
	}
	if calls != 1 {
		t.Fatalf("store calls = %d, want 1", calls)
	}
}

func TestStripeWebhookMissingAmountDefaultsToZero(t *testing.T) {
	app := newStripeTestApp()
	var booked *domain.Transaction
	app.Transactions = &fakeTransactions{
		createFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
			booked = tx
			return tx, true, nil
		},
	}

	body := completedSessionBody("cs_free", "", map[string]string{
		"credits": "20",
		"buyerId": "u1",
	})
	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, signedStripeRequest(app, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if booked == nil || booked.AmountCents != 0 {
		t.Fatalf("booked = %+v, want amount 0", booked)
	}
}

func TestStripeWebhookRejectsIncompleteMetadata(t *testing.T) {
	app := newStripeTestApp()
	app.Transactions = &fakeTransactions{
		createFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
			t.Fatal("transaction store must not be called")
			return nil, false, nil
		},
	}

	cases := []struct {
		name     string
		metadata map[string]string
	}{
		{"missing buyer", map[string]string{"credits": "120"}},
		{"missing credits", map[string]string{"buyerId": "u1"}},
		{"non numeric credits", map[string]string{"buyerId": "u1", "credits": "lots"}},
		{"zero credits", map[string]string{"buyerId": "u1", "credits": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := completedSessionBody("cs_bad", "4000", tc.metadata)
			rec := httptest.NewRecorder()
			app.StripeWebhook(rec, signedStripeRequest(app, body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestStripeWebhookUnknownBuyer(t *testing.T) {
	app := newStripeTestApp()
	app.Transactions = &fakeTransactions{
		createFn: func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
			return nil, false, domain.ErrNotFound
		},
	}

	body := completedSessionBody("cs_orphan", "4000", map[string]string{
		"credits": "120",
		"buyerId": "33333333-3333-3333-3333-333333333333",
	})
	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, signedStripeRequest(app, body))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
