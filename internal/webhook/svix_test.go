package webhook

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"
)

func newTestSvix(t *testing.T) *SvixVerifier {
	t.Helper()
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("test-signing-key"))
	v, err := NewSvixVerifier(secret)
	if err != nil {
		t.Fatalf("NewSvixVerifier() error: %v", err)
	}
	return v
}

func TestSvixVerifyRoundTrip(t *testing.T) {
	v := newTestSvix(t)
	body := []byte(`{"type":"user.created","data":{"id":"user_abc"}}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := v.Sign(body, "msg_1", ts)

	if err := v.Verify(body, "msg_1", ts, sig); err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
}

func TestSvixVerifyAcceptsAnyListedSignature(t *testing.T) {
	v := newTestSvix(t)
	body := []byte(`{}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := "v1,bm90LXRoZS1yaWdodC1zaWc= " + v.Sign(body, "msg_1", ts)

	if err := v.Verify(body, "msg_1", ts, sig); err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
}

func TestSvixVerifyRejectsTamperedBody(t *testing.T) {
	v := newTestSvix(t)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := v.Sign([]byte(`{"a":1}`), "msg_1", ts)

	if err := v.Verify([]byte(`{"a":2}`), "msg_1", ts, sig); err != ErrInvalidSignature {
		t.Fatalf("Verify() = %v, want ErrInvalidSignature", err)
	}
}

func TestSvixVerifyMissingHeaders(t *testing.T) {
	v := newTestSvix(t)
	if err := v.Verify([]byte(`{}`), "", "123", "v1,abc"); err != ErrMissingHeaders {
		t.Fatalf("Verify() = %v, want ErrMissingHeaders", err)
	}
	if err := v.Verify([]byte(`{}`), "msg_1", "", "v1,abc"); err != ErrMissingHeaders {
		t.Fatalf("Verify() = %v, want ErrMissingHeaders", err)
	}
	if err := v.Verify([]byte(`{}`), "msg_1", "123", ""); err != ErrMissingHeaders {
		t.Fatalf("Verify() = %v, want ErrMissingHeaders", err)
	}
}

func TestSvixVerifyStaleTimestamp(t *testing.T) {
	v := newTestSvix(t)
	body := []byte(`{}`)
	old := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	sig := v.Sign(body, "msg_1", old)

	if err := v.Verify(body, "msg_1", old, sig); err != ErrStaleTimestamp {
		t.Fatalf("Verify() = %v, want ErrStaleTimestamp", err)
	}
}

func TestNewSvixVerifierBadSecret(t *testing.T) {
	if _, err := NewSvixVerifier("whsec_!!!not-base64!!!"); err == nil {
		t.Fatalf("NewSvixVerifier() expected error for undecodable secret")
	}
	if _, err := NewSvixVerifier(""); err == nil {
		t.Fatalf("NewSvixVerifier() expected error for empty secret")
	}
}
