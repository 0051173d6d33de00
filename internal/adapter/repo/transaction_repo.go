package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/db"
	"server/internal/domain"
)

// TransactionRepositoryPG implements domain.TransactionRepository using PostgreSQL.
type TransactionRepositoryPG struct {
	db db.DBTX
}

// NewTransactionRepository creates a new transaction repo.
func NewTransactionRepository(db db.DBTX) *TransactionRepositoryPG {
	return &TransactionRepositoryPG{db: db}
}

// CreateWithCredits inserts the transaction and grants its credits to the
// buyer in one statement. The ON CONFLICT arm makes redelivered payment
// events no-ops: when the stripe id is already recorded the insert produces
// no row and the credit grant is skipped entirely.
func (r *TransactionRepositoryPG) CreateWithCredits(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
	row := r.db.QueryRow(ctx, `
WITH ins AS (
    INSERT INTO transactions (id, stripe_id, amount_cents, plan, credits, buyer_id)
    VALUES (gen_random_uuid(), $1, $2, $3, $4, $5::uuid)
    ON CONFLICT (stripe_id) DO NOTHING
    RETURNING id, created_at
),
granted AS (
    UPDATE users u
    SET credit_balance = u.credit_balance + $4,
        updated_at = NOW()
    WHERE u.id = $5::uuid
      AND EXISTS (SELECT 1 FROM ins)
    RETURNING u.id
)
SELECT i.id, i.created_at FROM ins i;
`,
		tx.StripeID,
		tx.AmountCents,
		tx.Plan,
		tx.Credits,
		tx.BuyerID,
	)

	created := *tx
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row from the insert arm: the stripe id was already recorded.
			return nil, false, nil
		}
		// A foreign-key failure means the buyer does not exist.
		return nil, false, mapPGError(err)
	}
	return &created, true, nil
}
