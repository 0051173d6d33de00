// Package webhook verifies the signed event envelopes pushed by the
// identity and payment providers. Verification always fails closed: a
// missing header, stale timestamp, or signature mismatch rejects the
// envelope before any mutation is attempted.
package webhook

import "errors"

var (
	// ErrMissingHeaders is returned when a required signature header is absent.
	ErrMissingHeaders = errors.New("missing signature headers")
	// ErrInvalidSignature is returned when no candidate signature matches.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrStaleTimestamp is returned when the timestamp is outside the replay window.
	ErrStaleTimestamp = errors.New("timestamp outside replay window")
	// ErrMalformedHeader is returned when a signature header cannot be parsed.
	ErrMalformedHeader = errors.New("malformed signature header")
)
