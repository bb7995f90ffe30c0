package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/milestone"
	"github.com/stridehq/stride/internal/domain/task"
)

// --- Milestones ---

const milestoneColumns = `id, goal_id, parent_milestone_id, title, description, status, created_at, updated_at`

func scanMilestone(row rowScanner) (milestone.Milestone, error) {
	var m milestone.Milestone
	var parent sql.NullString
	err := row.Scan(&m.ID, &m.GoalID, &parent, &m.Title, &m.Description,
		&m.Status, &m.CreatedAt, &m.UpdatedAt)
	if parent.Valid {
		m.ParentMilestoneID = parent.String
	}
	return m, err
}

func (s *Store) ListMilestones(ctx context.Context, goalID string) ([]milestone.Milestone, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE goal_id = $1 ORDER BY created_at`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	var milestones []milestone.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (s *Store) GetMilestone(ctx context.Context, id string) (*milestone.Milestone, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = $1`, id)

	m, err := scanMilestone(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get milestone %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get milestone %s: %w", id, err)
	}
	return &m, nil
}

func (s *Store) CreateMilestone(ctx context.Context, m *milestone.Milestone) (*milestone.Milestone, error) {
	var parent any
	if m.ParentMilestoneID != "" {
		parent = m.ParentMilestoneID
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO milestones (goal_id, parent_milestone_id, title, description, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+milestoneColumns,
		m.GoalID, parent, m.Title, m.Description, m.Status)

	created, err := scanMilestone(row)
	if err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return &created, nil
}

func (s *Store) UpdateMilestone(ctx context.Context, m *milestone.Milestone) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE milestones SET title = $2, description = $3, status = $4, updated_at = now()
		 WHERE id = $1`,
		m.ID, m.Title, m.Description, m.Status)
	if err != nil {
		return fmt.Errorf("update milestone %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update milestone %s: %w", m.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteMilestone(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete milestone %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete milestone %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// --- Tasks ---

const taskColumns = `id, goal_id, milestone_id, user_id, title, description, date, estimated_hours, done, version, created_at, updated_at`

func scanTask(row rowScanner) (task.Task, error) {
	var t task.Task
	var date time.Time
	err := row.Scan(&t.ID, &t.GoalID, &t.MilestoneID, &t.UserID, &t.Title, &t.Description,
		&date, &t.EstimatedHours, &t.Done, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	t.Date = date.Format(task.DateLayout)
	return t, err
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) ListTasksByMilestone(ctx context.Context, milestoneID string) ([]task.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE milestone_id = $1 ORDER BY date, created_at`, milestoneID)
}

func (s *Store) ListTasksByUser(ctx context.Context, userID string) ([]task.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY date, created_at`, userID)
}

func (s *Store) ListTasksInRange(ctx context.Context, userID, from, to string) ([]task.Task, error) {
	return s.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date, created_at`, userID, from, to)
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (goal_id, milestone_id, user_id, title, description, date, estimated_hours, done)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+taskColumns,
		t.GoalID, t.MilestoneID, t.UserID, t.Title, t.Description, t.Date, t.EstimatedHours, t.Done)

	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &created, nil
}

// UpdateTask writes t if the stored version still matches t.Version, then
// increments it.
func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET title = $2, description = $3, date = $4, estimated_hours = $5,
		        done = $6, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $7`,
		t.ID, t.Title, t.Description, t.Date, t.EstimatedHours, t.Done, t.Version)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update task %s: %w", t.ID, domain.ErrConflict)
	}
	t.Version++
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
