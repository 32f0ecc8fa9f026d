package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RetryPolicy bounds the startup connection loop. Delays grow
// Initial, Initial*Multiplier, ... up to Max.
type RetryPolicy struct {
	MaxRetries  uint64
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
	PingTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  10,
		Initial:     2 * time.Second,
		Max:         30 * time.Second,
		Multiplier:  1.5,
		PingTimeout: 10 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.MaxInterval = p.Max
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// Connect opens a pool and waits for the database to answer a ping, retrying
// with backoff. It is only used at startup; on exhaustion the pool is closed
// and the last error returned.
func Connect(ctx context.Context, dsn string, p RetryPolicy, log *slog.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("connect: database url not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	attempt := 0
	op := func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, p.PingTimeout)
		defer cancel()
		return pool.Ping(pctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("database connection failed",
			"err", err,
			"attempt", attempt,
			"max_retries", p.MaxRetries,
			"retry_in", wait.Round(time.Second),
		)
	}

	if err := backoff.RetryNotify(op, p.backOff(ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect after %d attempts: %w", attempt, err)
	}
	log.Info("connected to postgres", "attempts", attempt)
	return pool, nil
}
