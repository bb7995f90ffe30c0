// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/milestone"
	"github.com/stridehq/stride/internal/domain/session"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/domain/user"
)

// Store is the port interface for persistence operations. Update methods on
// versioned entities (goals, tasks, sessions) use compare-and-swap semantics:
// the write only commits when the stored version matches the entity's
// Version field, which is then incremented; a mismatch yields
// domain.ErrConflict.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *user.User) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error

	// Goals
	ListGoals(ctx context.Context, userID string) ([]goal.Goal, error)
	GetGoal(ctx context.Context, id string) (*goal.Goal, error)
	CreateGoal(ctx context.Context, g *goal.Goal) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, g *goal.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	// Milestones
	ListMilestones(ctx context.Context, goalID string) ([]milestone.Milestone, error)
	GetMilestone(ctx context.Context, id string) (*milestone.Milestone, error)
	CreateMilestone(ctx context.Context, m *milestone.Milestone) (*milestone.Milestone, error)
	UpdateMilestone(ctx context.Context, m *milestone.Milestone) error
	DeleteMilestone(ctx context.Context, id string) error

	// Tasks
	ListTasksByMilestone(ctx context.Context, milestoneID string) ([]task.Task, error)
	ListTasksByUser(ctx context.Context, userID string) ([]task.Task, error)
	// ListTasksInRange returns a user's tasks with from <= date < to,
	// ordered by date ascending then creation time.
	ListTasksInRange(ctx context.Context, userID, from, to string) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	CreateTask(ctx context.Context, t *task.Task) (*task.Task, error)
	UpdateTask(ctx context.Context, t *task.Task) error
	DeleteTask(ctx context.Context, id string) error

	// Sessions
	GetSession(ctx context.Context, id string) (*session.Session, error)
	// LatestActiveSession returns the most recently updated session with
	// sessionActive = true for the user, or domain.ErrNotFound.
	LatestActiveSession(ctx context.Context, userID string) (*session.Session, error)
	CreateSession(ctx context.Context, s *session.Session) (*session.Session, error)
	UpdateSession(ctx context.Context, s *session.Session) error

	// Chats and transcript messages
	CreateChat(ctx context.Context, c *session.Chat) (*session.Chat, error)
	AppendMessage(ctx context.Context, m *session.Message) (*session.Message, error)
	ListMessages(ctx context.Context, sessionID string) ([]session.Message, error)

	// Goal previews
	GetPreview(ctx context.Context, id string) (*session.Preview, error)
	ListPreviews(ctx context.Context, userID string) ([]session.Preview, error)
	CreatePreview(ctx context.Context, p *session.Preview) (*session.Preview, error)
	UpdatePreview(ctx context.Context, p *session.Preview) error
}
