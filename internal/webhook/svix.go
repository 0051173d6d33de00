package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is the replay protection window applied to both schemes.
const DefaultTolerance = 5 * time.Minute

// SvixVerifier checks svix-scheme envelopes as delivered by the identity
// provider. The canonical string is "{id}.{timestamp}.{payload}" and the
// signature header carries space-separated "v1,<base64>" candidates.
type SvixVerifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewSvixVerifier builds a verifier from the endpoint secret. Secrets issued
// by the provider are prefixed "whsec_" with a base64 key; bare secrets are
// used as-is.
func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	key := []byte(secret)
	if trimmed, ok := strings.CutPrefix(secret, "whsec_"); ok {
		decoded, err := base64.StdEncoding.DecodeString(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode webhook secret: %w", err)
		}
		key = decoded
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("webhook secret is empty")
	}
	return &SvixVerifier{key: key, tolerance: DefaultTolerance, now: time.Now}, nil
}

// Verify validates the raw body against the three svix headers.
func (v *SvixVerifier) Verify(payload []byte, msgID, timestamp, signatures string) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrMalformedHeader
	}
	if d := v.now().Sub(time.Unix(ts, 0)); d > v.tolerance || d < -v.tolerance {
		return ErrStaleTimestamp
	}

	expected := v.sign(msgID, timestamp, payload)
	for _, candidate := range strings.Fields(signatures) {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces the "v1,<base64>" signature for the given envelope. Exposed
// for tests and for local delivery tooling.
func (v *SvixVerifier) Sign(payload []byte, msgID, timestamp string) string {
	return "v1," + v.sign(msgID, timestamp, payload)
}

func (v *SvixVerifier) sign(msgID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
