// Package store persists COB entries and the admin principal in PostgreSQL.
// A Store built without a pool reports ErrUnavailable for every call, which is
// how the server keeps running after the startup connection budget is spent.
package store

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrExists      = errors.New("already exists")
	ErrUnavailable = errors.New("store unavailable")
)

type Store struct {
	pool atomic.Pointer[pgxpool.Pool]
}

func New(pool *pgxpool.Pool) *Store {
	s := &Store{}
	if pool != nil {
		s.pool.Store(pool)
	}
	return s
}

// Attach hands a pool to a Store created before the database answered.
func (s *Store) Attach(pool *pgxpool.Pool) {
	s.pool.Store(pool)
}

func (s *Store) Pool() *pgxpool.Pool { return s.pool.Load() }

func (s *Store) Ping(ctx context.Context) error {
	pool, err := s.ready()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (s *Store) Close() {
	if pool := s.pool.Swap(nil); pool != nil {
		pool.Close()
	}
}

func (s *Store) ready() (*pgxpool.Pool, error) {
	pool := s.pool.Load()
	if pool == nil {
		return nil, ErrUnavailable
	}
	return pool, nil
}

// ids are uuids; anything else can't match a row
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
