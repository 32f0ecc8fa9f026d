package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"cob-tracker/internal/model"
)

// Memory is an in-process Store with the same semantics as the Postgres one.
// It backs --memory dev mode and handler tests.
type Memory struct {
	mu     sync.RWMutex
	seq    int64
	cobs   map[string]memCob
	admins map[string]model.Admin
	now    func() time.Time
}

type memCob struct {
	model.Cob
	seq int64
}

func NewMemory() *Memory {
	return &Memory{
		cobs:   map[string]memCob{},
		admins: map[string]model.Admin{},
		now:    time.Now,
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) ListCobs(context.Context) ([]model.Cob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]memCob, 0, len(m.cobs))
	for _, c := range m.cobs {
		all = append(all, c)
	}
	// insertion sequence breaks created_at ties
	slices.SortFunc(all, func(a, b memCob) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq - a.seq)
	})

	out := make([]model.Cob, len(all))
	for i := range all {
		out[i] = all[i].Cob
	}
	return out, nil
}

func (m *Memory) CreateCob(_ context.Context, in model.CobInput) (*model.Cob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.seq++
	c := model.Cob{
		ID:           uuid.New().String(),
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		DurationText: in.DurationText,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.cobs[c.ID] = memCob{Cob: c, seq: m.seq}
	return &c, nil
}

func (m *Memory) UpdateCob(_ context.Context, id string, in model.CobInput) (*model.Cob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Date = in.Date
	c.StartTime = in.StartTime
	c.EndTime = in.EndTime
	c.DurationText = in.DurationText
	c.UpdatedAt = m.now()
	m.cobs[id] = c

	out := c.Cob
	return &out, nil
}

func (m *Memory) DeleteCob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.cobs, id)
	return nil
}

func (m *Memory) CreateAdmin(_ context.Context, a *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[a.Username]; ok {
		return ErrExists
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Role == "" {
		a.Role = model.RoleAdmin
	}
	a.CreatedAt = m.now()
	m.admins[a.Username] = *a
	return nil
}

func (m *Memory) AdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.admins[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}
