package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/user"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// --- Users ---

const userColumns = `id, email, name, profile_image_url, timezone, available_hours_per_week, password_hash, created_at, updated_at`

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.ProfileImageURL, &u.Timezone,
		&u.AvailableHoursPerWeek, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, profile_image_url, timezone, available_hours_per_week, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.Email, u.Name, u.ProfileImageURL, u.Timezone, u.AvailableHoursPerWeek, u.PasswordHash)

	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get user by email: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	// Email is immutable post-create and deliberately absent from the SET list.
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET name = $2, profile_image_url = $3, timezone = $4,
		        available_hours_per_week = $5, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.Name, u.ProfileImageURL, u.Timezone, u.AvailableHoursPerWeek)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: %w", u.ID, domain.ErrNotFound)
	}
	return nil
}

// --- Goals ---

const goalColumns = `id, user_id, title, description, status, min_hours_per_week, priority, color, version, created_at, updated_at`

func scanGoal(row rowScanner) (goal.Goal, error) {
	var g goal.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Status,
		&g.MinHoursPerWeek, &g.Priority, &g.Color, &g.Version, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]goal.Goal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY priority DESC, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) GetGoal(ctx context.Context, id string) (*goal.Goal, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)

	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get goal %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) (*goal.Goal, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO goals (user_id, title, description, status, min_hours_per_week, priority, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+goalColumns,
		g.UserID, g.Title, g.Description, g.Status, g.MinHoursPerWeek, g.Priority, g.Color)

	created, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &created, nil
}

// UpdateGoal writes g if the stored version still matches g.Version, then
// increments it. A mismatch means another request updated the goal first.
func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET title = $2, description = $3, status = $4, min_hours_per_week = $5,
		        priority = $6, color = $7, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $8`,
		g.ID, g.Title, g.Description, g.Status, g.MinHoursPerWeek, g.Priority, g.Color, g.Version)
	if err != nil {
		return fmt.Errorf("update goal %s: %w", g.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update goal %s: %w", g.ID, domain.ErrConflict)
	}
	g.Version++
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete goal %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
