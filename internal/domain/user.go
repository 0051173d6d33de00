package domain

import "time"

// UserPlan enumerates billing plans.
type UserPlan string

const (
	UserPlanFree    UserPlan = "free"
	UserPlanPro     UserPlan = "pro"
	UserPlanPremium UserPlan = "premium"
)

// DefaultCreditBalance is granted to every newly synced user.
const DefaultCreditBalance = 10

// User represents an account synced from the identity provider.
type User struct {
	ID            string
	ClerkID       string
	Email         string
	Username      string
	FirstName     string
	LastName      string
	PhotoURL      string
	Plan          UserPlan
	CreditBalance int64
	LocalePref    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFree reports whether the user is on the free plan.
func (u User) IsFree() bool {
	return u.Plan == UserPlanFree || u.Plan == ""
}

// CanAfford reports whether the balance covers the given fee.
func (u User) CanAfford(fee int64) bool {
	return u.CreditBalance >= fee
}
