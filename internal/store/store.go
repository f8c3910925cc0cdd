// Package store provides Postgres persistence for projects and donations.
// All SQL runs through a Queries value bound to either the pool or an open
// transaction, mirroring how the rest of the data layer is structured.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// txAttempts bounds retries of a serializable transaction that lost a
// conflict. The engine itself never retries; this is the caller layer.
const txAttempts = 3

// Store wraps the connection pool and hands out transaction-scoped Queries.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func New(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Queries returns pool-bound queries for single-statement reads.
func (s *Store) Queries() *Queries {
	return NewQueries(s.pool)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx runs fn inside a serializable transaction. Two concurrent matching
// passes can therefore never both observe the same open entity; the loser
// aborts with SQLSTATE 40001 and is retried here a bounded number of times.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
			return fn(NewQueries(tx))
		})
		if err == nil || !retryable(err) || ctx.Err() != nil {
			return err
		}
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
		select {
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// retryable reports whether err is a serialization failure or deadlock,
// the two outcomes a serializable rerun can resolve.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
