package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cob-tracker/internal/model"
)

func TestMemoryListNewestFirst(t *testing.T) {
	m := NewMemory()
	fixed := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	ctx := context.Background()
	first, err := m.CreateCob(ctx, model.CobInput{Date: "01/07/2025", StartTime: "09:00", EndTime: "17:00", DurationText: "8h 0m"})
	require.NoError(t, err)
	second, err := m.CreateCob(ctx, model.CobInput{Date: "02/07/2025", StartTime: "09:00", EndTime: "18:00", DurationText: "9h 0m"})
	require.NoError(t, err)

	list, err := m.ListCobs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestMemoryUpdateDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c, err := m.CreateCob(ctx, model.CobInput{Date: "01/07/2025", StartTime: "09:00", EndTime: "17:00", DurationText: "8h 0m"})
	require.NoError(t, err)

	up, err := m.UpdateCob(ctx, c.ID, model.CobInput{Date: "03/07/2025", StartTime: "22:00", EndTime: "02:00", DurationText: "4h 0m"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, up.ID)
	assert.Equal(t, "03/07/2025", up.Date)
	assert.Equal(t, c.CreatedAt, up.CreatedAt)

	_, err = m.UpdateCob(ctx, "missing", model.CobInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.DeleteCob(ctx, c.ID))
	assert.ErrorIs(t, m.DeleteCob(ctx, c.ID), ErrNotFound)
}

func TestMemoryAdminUnique(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a := &model.Admin{Username: "boss", PasswordHash: "x"}
	require.NoError(t, m.CreateAdmin(ctx, a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, model.RoleAdmin, a.Role)

	err := m.CreateAdmin(ctx, &model.Admin{Username: "boss", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrExists)

	got, err := m.AdminByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, "x", got.PasswordHash)

	_, err = m.AdminByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnavailableStore(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	_, err := s.ListCobs(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = s.CreateCob(ctx, model.CobInput{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.DeleteCob(ctx, "x"), ErrUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), ErrUnavailable)
	_, err = s.AdminByUsername(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := DefaultRetryPolicy()
	b := p.backOff(context.Background())

	want := []time.Duration{2 * time.Second, 3 * time.Second, 4500 * time.Millisecond}
	for i, w := range want {
		assert.Equal(t, w, b.NextBackOff(), "step %d", i)
	}
	// capped and bounded
	for i := 3; i < int(p.MaxRetries); i++ {
		d := b.NextBackOff()
		assert.LessOrEqual(t, d, p.Max)
	}
	assert.Equal(t, time.Duration(-1), b.NextBackOff())
}
