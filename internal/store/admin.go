package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cob-tracker/internal/model"
)

// CreateAdmin inserts a principal. A taken username yields ErrExists.
func (s *Store) CreateAdmin(ctx context.Context, a *model.Admin) error {
	pool, err := s.ready()
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Role == "" {
		a.Role = model.RoleAdmin
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO admins (id, username, password_hash, role) VALUES ($1,$2,$3,$4)
		 RETURNING created_at`,
		a.ID, a.Username, a.PasswordHash, a.Role,
	).Scan(&a.CreatedAt)
	if isUniqueViolation(err) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	pool, err := s.ready()
	if err != nil {
		return nil, err
	}
	a := &model.Admin{}
	err = pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at
		 FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select admin: %w", err)
	}
	return a, nil
}
