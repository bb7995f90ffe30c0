package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/milestone"
	"github.com/stridehq/stride/internal/domain/session"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/domain/user"
	"github.com/stridehq/stride/internal/port/database"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory implementation of database.Store for
// testing. Versioned updates mimic the real store's compare-and-swap.
type mockStore struct {
	users      []user.User
	goals      []goal.Goal
	milestones []milestone.Milestone
	tasks      []task.Task
	sessions   []session.Session
	chats      []session.Chat
	messages   []session.Message
	previews   []session.Preview

	seq int

	// Error hooks — set these to inject failures.
	listGoalsErr     error
	updateSessionErr error
}

func (m *mockStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// --- Users ---

func (m *mockStore) CreateUser(_ context.Context, u *user.User) (*user.User, error) {
	created := *u
	created.ID = m.nextID("user")
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.users = append(m.users, created)
	return &created, nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) UpdateUser(_ context.Context, u *user.User) error {
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Goals ---

func (m *mockStore) ListGoals(_ context.Context, userID string) ([]goal.Goal, error) {
	if m.listGoalsErr != nil {
		return nil, m.listGoalsErr
	}
	var out []goal.Goal
	for i := range m.goals {
		if m.goals[i].UserID == userID {
			out = append(out, m.goals[i])
		}
	}
	return out, nil
}

func (m *mockStore) GetGoal(_ context.Context, id string) (*goal.Goal, error) {
	for i := range m.goals {
		if m.goals[i].ID == id {
			g := m.goals[i]
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateGoal(_ context.Context, g *goal.Goal) (*goal.Goal, error) {
	created := *g
	created.ID = m.nextID("goal")
	created.Version = 1
	m.goals = append(m.goals, created)
	return &created, nil
}

func (m *mockStore) UpdateGoal(_ context.Context, g *goal.Goal) error {
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			if m.goals[i].Version != g.Version {
				return domain.ErrConflict
			}
			g.Version++
			m.goals[i] = *g
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteGoal(_ context.Context, id string) error {
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Milestones ---

func (m *mockStore) ListMilestones(_ context.Context, goalID string) ([]milestone.Milestone, error) {
	var out []milestone.Milestone
	for i := range m.milestones {
		if m.milestones[i].GoalID == goalID {
			out = append(out, m.milestones[i])
		}
	}
	return out, nil
}

func (m *mockStore) GetMilestone(_ context.Context, id string) (*milestone.Milestone, error) {
	for i := range m.milestones {
		if m.milestones[i].ID == id {
			ms := m.milestones[i]
			return &ms, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateMilestone(_ context.Context, ms *milestone.Milestone) (*milestone.Milestone, error) {
	created := *ms
	created.ID = m.nextID("milestone")
	m.milestones = append(m.milestones, created)
	return &created, nil
}

func (m *mockStore) UpdateMilestone(_ context.Context, ms *milestone.Milestone) error {
	for i := range m.milestones {
		if m.milestones[i].ID == ms.ID {
			m.milestones[i] = *ms
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteMilestone(_ context.Context, id string) error {
	for i := range m.milestones {
		if m.milestones[i].ID == id {
			m.milestones = append(m.milestones[:i], m.milestones[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Tasks ---

func (m *mockStore) ListTasksByMilestone(_ context.Context, milestoneID string) ([]task.Task, error) {
	var out []task.Task
	for i := range m.tasks {
		if m.tasks[i].MilestoneID == milestoneID {
			out = append(out, m.tasks[i])
		}
	}
	return out, nil
}

func (m *mockStore) ListTasksByUser(_ context.Context, userID string) ([]task.Task, error) {
	var out []task.Task
	for i := range m.tasks {
		if m.tasks[i].UserID == userID {
			out = append(out, m.tasks[i])
		}
	}
	return out, nil
}

func (m *mockStore) ListTasksInRange(_ context.Context, userID, from, to string) ([]task.Task, error) {
	var out []task.Task
	for i := range m.tasks {
		t := m.tasks[i]
		if t.UserID == userID && t.Date >= from && t.Date < to {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateTask(_ context.Context, t *task.Task) (*task.Task, error) {
	created := *t
	created.ID = m.nextID("task")
	created.Version = 1
	m.tasks = append(m.tasks, created)
	return &created, nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *task.Task) error {
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			if m.tasks[i].Version != t.Version {
				return domain.ErrConflict
			}
			t.Version++
			m.tasks[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Sessions ---

func (m *mockStore) GetSession(_ context.Context, id string) (*session.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			s := m.sessions[i]
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) LatestActiveSession(_ context.Context, userID string) (*session.Session, error) {
	var latest *session.Session
	for i := range m.sessions {
		s := &m.sessions[i]
		if s.UserID != userID || !s.Active {
			continue
		}
		if latest == nil || s.UpdatedAt.After(latest.UpdatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (m *mockStore) CreateSession(_ context.Context, s *session.Session) (*session.Session, error) {
	created := *s
	if created.ID == "" {
		created.ID = m.nextID("session")
	}
	created.Version = 1
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.sessions = append(m.sessions, created)
	return &created, nil
}

func (m *mockStore) UpdateSession(_ context.Context, s *session.Session) error {
	if m.updateSessionErr != nil {
		return m.updateSessionErr
	}
	for i := range m.sessions {
		if m.sessions[i].ID == s.ID {
			if m.sessions[i].Version != s.Version {
				return domain.ErrConflict
			}
			s.Version++
			s.UpdatedAt = time.Now()
			m.sessions[i] = *s
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Chats and messages ---

func (m *mockStore) CreateChat(_ context.Context, c *session.Chat) (*session.Chat, error) {
	created := *c
	created.ID = m.nextID("chat")
	created.CreatedAt = time.Now()
	m.chats = append(m.chats, created)
	return &created, nil
}

func (m *mockStore) AppendMessage(_ context.Context, msg *session.Message) (*session.Message, error) {
	created := *msg
	created.ID = m.nextID("msg")
	created.CreatedAt = time.Now()
	m.messages = append(m.messages, created)
	return &created, nil
}

func (m *mockStore) ListMessages(_ context.Context, sessionID string) ([]session.Message, error) {
	var out []session.Message
	for i := range m.messages {
		if m.messages[i].SessionID == sessionID {
			out = append(out, m.messages[i])
		}
	}
	return out, nil
}

// --- Previews ---

func (m *mockStore) GetPreview(_ context.Context, id string) (*session.Preview, error) {
	for i := range m.previews {
		if m.previews[i].ID == id {
			p := m.previews[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListPreviews(_ context.Context, userID string) ([]session.Preview, error) {
	var out []session.Preview
	for i := range m.previews {
		if m.previews[i].UserID == userID {
			out = append(out, m.previews[i])
		}
	}
	return out, nil
}

func (m *mockStore) CreatePreview(_ context.Context, p *session.Preview) (*session.Preview, error) {
	created := *p
	created.ID = m.nextID("preview")
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.previews = append(m.previews, created)
	return &created, nil
}

func (m *mockStore) UpdatePreview(_ context.Context, p *session.Preview) error {
	for i := range m.previews {
		if m.previews[i].ID == p.ID {
			m.previews[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}
