package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/db"
	"server/internal/domain"
)

const userColumns = `id, clerk_id, email, username, first_name, last_name, photo_url, plan, credit_balance, locale_pref, created_at, updated_at`

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db db.DBTX
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db db.DBTX) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// Create inserts a new user synced from the identity provider.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO users (id, clerk_id, email, username, first_name, last_name, photo_url, plan, credit_balance, locale_pref)
VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, 'free', $7, $8)
RETURNING `+userColumns+`;
`,
		user.ClerkID,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PhotoURL,
		domain.DefaultCreditBalance,
		user.LocalePref,
	)
	return scanUser(row)
}

// GetByID fetches a user by local UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1::uuid`, id)
	return scanUser(row)
}

// GetByClerkID fetches a user by external identity-provider key.
func (r *UserRepositoryPG) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID)
	return scanUser(row)
}

// UpdateByClerkID overwrites mutable profile fields. The credit balance is
// deliberately absent from the SET list.
func (r *UserRepositoryPG) UpdateByClerkID(ctx context.Context, clerkID string, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
UPDATE users
SET username = $2,
    first_name = $3,
    last_name = $4,
    photo_url = $5,
    updated_at = NOW()
WHERE clerk_id = $1
RETURNING `+userColumns+`;
`,
		clerkID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PhotoURL,
	)
	return scanUser(row)
}

// DeleteByClerkID removes the user and reports whether a row existed.
// Deleting an already-absent user is a no-op, not an error.
func (r *UserRepositoryPG) DeleteByClerkID(ctx context.Context, clerkID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustCredits applies a signed delta as a single atomic increment so
// concurrent adjustments never lose an update.
func (r *UserRepositoryPG) AdjustCredits(ctx context.Context, userID string, delta int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
UPDATE users
SET credit_balance = credit_balance + $2,
    updated_at = NOW()
WHERE id = $1::uuid
RETURNING `+userColumns+`;
`, userID, delta)
	return scanUser(row)
}

// ChargeCredits decrements the balance only when it covers the fee, so
// concurrent spends cannot overdraw.
func (r *UserRepositoryPG) ChargeCredits(ctx context.Context, userID string, fee int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
UPDATE users
SET credit_balance = credit_balance - $2,
    updated_at = NOW()
WHERE id = $1::uuid
  AND credit_balance >= $2
RETURNING `+userColumns+`;
`, userID, fee)
	user, err := scanUser(row)
	if errors.Is(err, domain.ErrNotFound) {
		// Distinguish a missing user from an insufficient balance.
		if _, getErr := r.GetByID(ctx, userID); getErr == nil {
			return nil, domain.ErrInsufficientCredits
		}
		return nil, domain.ErrNotFound
	}
	return user, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PhotoURL, &u.Plan, &u.CreditBalance, &u.LocalePref, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapPGError(err)
	}
	return &u, nil
}

func mapPGError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.ErrDuplicate
		case "23503": // foreign_key_violation
			return domain.ErrNotFound
		}
	}
	return err
}
