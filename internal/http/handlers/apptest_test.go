package handlers

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
)

func newTestApp() *App {
	return &App{
		SQL:    &fakeDBTX{},
		Logger: zerolog.Nop(),
		Config: &infra.Config{
			ServerURL:       "http://localhost:3000",
			JWTSecret:       "test-secret",
			DefaultLocale:   "en",
			RateLimitPerMin: 60,
		},
	}
}

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

type fakeDBTX struct {
	execFn  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	rowFn   func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (f *fakeDBTX) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execFn == nil {
		return pgconn.CommandTag{}, nil
	}
	return f.execFn(ctx, sql, args...)
}

func (f *fakeDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryFn == nil {
		return emptyRows{}, nil
	}
	return f.queryFn(ctx, sql, args...)
}

func (f *fakeDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.rowFn == nil {
		return NewSimpleRow(nil)
	}
	return f.rowFn(ctx, sql, args...)
}

type emptyRows struct{ TestRowsBase }

func (emptyRows) Close()                 {}
func (emptyRows) Err() error             { return nil }
func (emptyRows) Next() bool             { return false }
func (emptyRows) Scan(dest ...any) error { return pgx.ErrNoRows }

type fakeUsers struct {
	createFn        func(ctx context.Context, user *domain.User) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	getByClerkIDFn  func(ctx context.Context, clerkID string) (*domain.User, error)
	updateByClerkFn func(ctx context.Context, clerkID string, user *domain.User) (*domain.User, error)
	deleteByClerkFn func(ctx context.Context, clerkID string) (bool, error)
	adjustCreditsFn func(ctx context.Context, userID string, delta int64) (*domain.User, error)
	chargeCreditsFn func(ctx context.Context, userID string, fee int64) (*domain.User, error)
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return f.createFn(ctx, user)
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUsers) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	return f.getByClerkIDFn(ctx, clerkID)
}

func (f *fakeUsers) UpdateByClerkID(ctx context.Context, clerkID string, user *domain.User) (*domain.User, error) {
	return f.updateByClerkFn(ctx, clerkID, user)
}

func (f *fakeUsers) DeleteByClerkID(ctx context.Context, clerkID string) (bool, error) {
	return f.deleteByClerkFn(ctx, clerkID)
}

func (f *fakeUsers) AdjustCredits(ctx context.Context, userID string, delta int64) (*domain.User, error) {
	return f.adjustCreditsFn(ctx, userID, delta)
}

func (f *fakeUsers) ChargeCredits(ctx context.Context, userID string, fee int64) (*domain.User, error) {
	return f.chargeCreditsFn(ctx, userID, fee)
}

type fakeTransactions struct {
	createFn func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error)
}

func (f *fakeTransactions) CreateWithCredits(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, bool, error) {
	return f.createFn(ctx, tx)
}

type fakeImages struct {
	createFn  func(ctx context.Context, image *domain.Image) (*domain.Image, error)
	updateFn  func(ctx context.Context, image *domain.Image) (*domain.Image, error)
	deleteFn  func(ctx context.Context, id string) error
	getByIDFn func(ctx context.Context, id string) (*domain.Image, error)
	listFn    func(ctx context.Context, q domain.ImageQuery) (*domain.ImagePage, error)
}

func (f *fakeImages) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	return f.createFn(ctx, image)
}

func (f *fakeImages) Update(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	return f.updateFn(ctx, image)
}

func (f *fakeImages) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeImages) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeImages) List(ctx context.Context, q domain.ImageQuery) (*domain.ImagePage, error) {
	return f.listFn(ctx, q)
}
