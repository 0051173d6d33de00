package geoip

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable reports that no database is loaded. Callers treat it as a
// soft failure and fall back to the default locale.
var ErrUnavailable = errors.New("geoip: database not loaded")

// Resolver answers country lookups from a local MaxMind database. A nil
// resolver is usable and reports ErrUnavailable.
type Resolver struct {
	db *geoip2.Reader
}

// NewResolver opens the MaxMind database at path.
func NewResolver(path string) (*Resolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open %s: %w", path, err)
	}
	return &Resolver{db: reader}, nil
}

// CountryCode resolves ip to an ISO 3166-1 alpha-2 code. Addresses the
// database does not know resolve to the empty string without error.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.db == nil {
		return "", ErrUnavailable
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", fmt.Errorf("geoip: bad address %q", ip)
	}
	record, err := r.db.Country(addr)
	if err != nil {
		return "", fmt.Errorf("geoip: country lookup: %w", err)
	}
	if record == nil {
		return "", nil
	}
	return record.Country.IsoCode, nil
}

func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
