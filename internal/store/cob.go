package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cob-tracker/internal/model"
)

const cobColumns = `id, date, start_time, end_time, duration_text, created_at, updated_at`

func scanCob(row pgx.Row, c *model.Cob) error {
	return row.Scan(&c.ID, &c.Date, &c.StartTime, &c.EndTime, &c.DurationText, &c.CreatedAt, &c.UpdatedAt)
}

// ListCobs returns every entry, newest first.
func (s *Store) ListCobs(ctx context.Context) ([]model.Cob, error) {
	pool, err := s.ready()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT `+cobColumns+` FROM cobs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cobs: %w", err)
	}
	defer rows.Close()

	out := []model.Cob{}
	for rows.Next() {
		var c model.Cob
		if err := scanCob(rows, &c); err != nil {
			return nil, fmt.Errorf("scan cob: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCob(ctx context.Context, in model.CobInput) (*model.Cob, error) {
	pool, err := s.ready()
	if err != nil {
		return nil, err
	}
	c := &model.Cob{}
	err = scanCob(pool.QueryRow(ctx,
		`INSERT INTO cobs (id, date, start_time, end_time, duration_text)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING `+cobColumns,
		uuid.New().String(), in.Date, in.StartTime, in.EndTime, in.DurationText,
	), c)
	if err != nil {
		return nil, fmt.Errorf("insert cob: %w", err)
	}
	return c, nil
}

// UpdateCob replaces all four client fields of an existing entry.
func (s *Store) UpdateCob(ctx context.Context, id string, in model.CobInput) (*model.Cob, error) {
	pool, err := s.ready()
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ErrNotFound
	}
	c := &model.Cob{}
	err = scanCob(pool.QueryRow(ctx,
		`UPDATE cobs
		 SET date=$1, start_time=$2, end_time=$3, duration_text=$4, updated_at=NOW()
		 WHERE id=$5
		 RETURNING `+cobColumns,
		in.Date, in.StartTime, in.EndTime, in.DurationText, id,
	), c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cob: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteCob(ctx context.Context, id string) error {
	pool, err := s.ready()
	if err != nil {
		return err
	}
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := pool.Exec(ctx, `DELETE FROM cobs WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete cob: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
