package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// StripeVerifier checks payment-provider envelopes. The signature header is
// a comma-separated list of "t=<unix>" and "v1=<hex>" pairs and the
// canonical string is "{t}.{payload}".
type StripeVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewStripeVerifier builds a verifier from the endpoint secret.
func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: []byte(secret), tolerance: DefaultTolerance, now: time.Now}
}

// Verify validates the raw body against the signature header.
func (v *StripeVerifier) Verify(payload []byte, header string) error {
	if header == "" {
		return ErrMissingHeaders
	}

	var timestamp string
	var candidates []string
	for _, pair := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return ErrMalformedHeader
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrMalformedHeader
	}
	if d := v.now().Sub(time.Unix(ts, 0)); d > v.tolerance || d < -v.tolerance {
		return ErrStaleTimestamp
	}

	expected := v.sign(timestamp, payload)
	for _, candidate := range candidates {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces a full signature header for the given body. Exposed for
// tests and local delivery tooling.
func (v *StripeVerifier) Sign(payload []byte, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	return "t=" + timestamp + ",v1=" + v.sign(timestamp, payload)
}

func (v *StripeVerifier) sign(timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp + "."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
