package domain

import "time"

// Transaction records a completed credit purchase. StripeID is the external
// payment-provider id and is unique: redelivered completion events must not
// produce a second row or a second credit grant.
type Transaction struct {
	ID          string
	StripeID    string
	AmountCents int64
	Plan        string
	Credits     int64
	BuyerID     string
	CreatedAt   time.Time
}

// Amount returns the monetary amount in major currency units.
func (t Transaction) Amount() float64 {
	return float64(t.AmountCents) / 100
}
