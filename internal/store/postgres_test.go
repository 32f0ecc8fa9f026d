package store_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"cob-tracker/internal/model"
	"cob-tracker/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("INTEGRATION_TEST=1 not set")
	}
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cob_test"),
		tcpostgres.WithUsername("cob"),
		tcpostgres.WithPassword("cob"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	policy := store.RetryPolicy{MaxRetries: 3, Initial: 500 * time.Millisecond, Max: 2 * time.Second, Multiplier: 2, PingTimeout: 5 * time.Second}
	pool, err := store.Connect(ctx, dsn, policy, quiet)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, store.Migrate(ctx, pool))
	return store.New(pool)
}

func TestPostgresCobLifecycle(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	first, err := st.CreateCob(ctx, model.CobInput{Date: "01/07/2025", StartTime: "09:00", EndTime: "17:30", DurationText: "8h 30m"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := st.CreateCob(ctx, model.CobInput{Date: "02/07/2025", StartTime: "22:00", EndTime: "02:00", DurationText: "4h 0m"})
	require.NoError(t, err)

	list, err := st.ListCobs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	up, err := st.UpdateCob(ctx, first.ID, model.CobInput{Date: "05/07/2025", StartTime: "10:00", EndTime: "10:00", DurationText: "0h 0m"})
	require.NoError(t, err)
	assert.Equal(t, "05/07/2025", up.Date)
	assert.Equal(t, first.CreatedAt.Unix(), up.CreatedAt.Unix())

	_, err = st.UpdateCob(ctx, uuid.New().String(), model.CobInput{Date: "x", StartTime: "x", EndTime: "x", DurationText: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UpdateCob(ctx, "not-a-uuid", model.CobInput{})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.DeleteCob(ctx, first.ID))
	assert.ErrorIs(t, st.DeleteCob(ctx, first.ID), store.ErrNotFound)
}

func TestPostgresAdmin(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	a := &model.Admin{Username: "admin", PasswordHash: "hash"}
	require.NoError(t, st.CreateAdmin(ctx, a))
	assert.Equal(t, model.RoleAdmin, a.Role)

	err := st.CreateAdmin(ctx, &model.Admin{Username: "admin", PasswordHash: "other"})
	assert.ErrorIs(t, err, store.ErrExists)

	got, err := st.AdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = st.AdminByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresAttachLate(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	late := store.New(nil)
	assert.ErrorIs(t, late.Ping(ctx), store.ErrUnavailable)
	_, err := late.ListCobs(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	late.Attach(st.Pool())
	require.NoError(t, late.Ping(ctx))
	_, err = late.ListCobs(ctx)
	assert.NoError(t, err)
}
