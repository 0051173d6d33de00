package domain

import "context"

// UserRepository defines persistence for user accounts and their credit balance.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
	// UpdateByClerkID overwrites mutable profile fields; the credit balance
	// is never touched by profile updates.
	UpdateByClerkID(ctx context.Context, clerkID string, user *User) (*User, error)
	// DeleteByClerkID removes the user and reports whether a row existed.
	DeleteByClerkID(ctx context.Context, clerkID string) (bool, error)
	// AdjustCredits applies a signed delta as a single atomic increment.
	AdjustCredits(ctx context.Context, userID string, delta int64) (*User, error)
	// ChargeCredits decrements the balance only when it covers the fee.
	ChargeCredits(ctx context.Context, userID string, fee int64) (*User, error)
}

// TransactionRepository persists completed credit purchases.
type TransactionRepository interface {
	// CreateWithCredits inserts the transaction and grants its credits to the
	// buyer in one atomic unit. The boolean reports whether the insert
	// happened; a false result means the stripe id was already recorded and
	// no credits were applied.
	CreateWithCredits(ctx context.Context, tx *Transaction) (*Transaction, bool, error)
}

// ImageQuery restricts and paginates an image listing.
type ImageQuery struct {
	Page      int
	PageSize  int
	PublicIDs []string // nil means unrestricted
	AuthorID  string   // empty means all authors
}

// ImageRepository persists transformed-image metadata.
type ImageRepository interface {
	Create(ctx context.Context, image *Image) (*Image, error)
	Update(ctx context.Context, image *Image) (*Image, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Image, error)
	List(ctx context.Context, q ImageQuery) (*ImagePage, error)
}
