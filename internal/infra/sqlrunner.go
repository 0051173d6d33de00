package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"server/internal/db"
)

var markerLine = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// SQLRunner executes audit-marked SQL against the pool. Every statement must
// open with a `--sql <uuid>` line; the marker is stripped before execution and
// attached to each log event so a query in the logs can be traced back to its
// constant.
type SQLRunner struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{pool: pool, log: logger}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, stmt, err := splitMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		r.log.Error().Str("sql", marker).Err(err).Msg("exec failed")
		return tag, err
	}
	r.log.Debug().Str("sql", marker).Int64("rows", tag.RowsAffected()).Dur("took", time.Since(start)).Msg("exec")
	return tag, nil
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, stmt, err := splitMarker(query)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		r.log.Error().Str("sql", marker).Err(err).Msg("query failed")
		return nil, err
	}
	r.log.Debug().Str("sql", marker).Msg("query")
	return rows, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, stmt, err := splitMarker(query)
	if err != nil {
		return errRow{err: err}
	}
	r.log.Debug().Str("sql", marker).Msg("query_row")
	return r.pool.QueryRow(ctx, stmt, args...)
}

// errRow surfaces a marker violation at Scan time, where callers already
// handle errors.
type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	return r.err
}

func splitMarker(query string) (marker, stmt string, err error) {
	first, rest, _ := strings.Cut(strings.TrimSpace(query), "\n")
	first = strings.TrimSpace(first)
	if !markerLine.MatchString(first) {
		return "", "", errors.New("sql statement lacks its --sql audit marker")
	}
	return strings.TrimPrefix(first, "--sql "), rest, nil
}

var _ db.DBTX = (*SQLRunner)(nil)
