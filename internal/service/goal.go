package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/stridehq/stride/internal/adapter/otel"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/port/database"
	"github.com/stridehq/stride/internal/port/eventbus"
)

// GoalService handles goal CRUD with hour-budget enforcement.
//
// The budget check is read-then-decide-then-write without cross-request
// locking: two concurrent creations can both pass the check before either
// commits. Updates are still guarded by per-goal version CAS, so lost updates
// to a single goal are rejected with a conflict.
type GoalService struct {
	store    database.Store
	bus      eventbus.Bus
	schedule *ScheduleService
	metrics  *otel.Metrics
}

// NewGoalService creates a new GoalService. bus and metrics may be nil.
func NewGoalService(store database.Store, bus eventbus.Bus, schedule *ScheduleService, metrics *otel.Metrics) *GoalService {
	return &GoalService{store: store, bus: bus, schedule: schedule, metrics: metrics}
}

// List returns all goals owned by a user.
func (s *GoalService) List(ctx context.Context, userID string) ([]goal.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

// Get returns a goal by ID, enforcing ownership.
func (s *GoalService) Get(ctx context.Context, userID, id string) (*goal.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, domain.Forbiddenf("goal %s does not belong to the authenticated user", id)
	}
	return g, nil
}

// Create creates a goal after the hour-budget check. A goal created active
// must fit within the user's weekly availability alongside their other
// active goals.
func (s *GoalService) Create(ctx context.Context, userID string, req goal.CreateRequest) (*goal.Goal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = goal.StatusActive
	}

	if req.Status == goal.StatusActive {
		if err := s.checkBudget(ctx, userID, req.MinHoursPerWeek, ""); err != nil {
			return nil, err
		}
	}

	created, err := s.store.CreateGoal(ctx, &goal.Goal{
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		MinHoursPerWeek: req.MinHoursPerWeek,
		Priority:        req.Priority,
		Color:           req.Color,
	})
	if err != nil {
		return nil, err
	}

	s.schedule.Invalidate(ctx, userID)
	s.publishCreated(ctx, created)
	return created, nil
}

// Update applies an update request. When the result would make or keep the
// goal active the hour-budget check runs against the user's other active
// goals before the write commits.
func (s *GoalService) Update(ctx context.Context, userID, id string, req goal.UpdateRequest) (*goal.Goal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 {
		g.Version = req.Version
	}
	req.Apply(g)

	if g.Status == goal.StatusActive {
		if err := s.checkBudget(ctx, userID, g.MinHoursPerWeek, g.ID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	s.schedule.Invalidate(ctx, userID)
	return g, nil
}

// Delete removes a goal, enforcing ownership.
func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.schedule.Invalidate(ctx, userID)
	return nil
}

// checkBudget runs the hour-budget validator for a candidate goal.
// excludeID removes the goal being updated from the comparison set.
func (s *GoalService) checkBudget(ctx context.Context, userID string, candidateHours float64, excludeID string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return err
	}

	others := goals[:0]
	for i := range goals {
		if goals[i].ID != excludeID {
			others = append(others, goals[i])
		}
	}

	if err := goal.CheckBudget(u.AvailableHoursPerWeek, candidateHours, others); err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrConflict) {
			s.metrics.BudgetRejections.Add(ctx, 1)
		}
		return err
	}
	return nil
}

// publishCreated emits a goals.created event. Publishing is best-effort.
func (s *GoalService) publishCreated(ctx context.Context, g *goal.Goal) {
	if s.bus == nil {
		return
	}
	data, err := json.Marshal(eventbus.GoalCreatedPayload{
		GoalID:          g.ID,
		UserID:          g.UserID,
		Title:           g.Title,
		MinHoursPerWeek: g.MinHoursPerWeek,
	})
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, eventbus.SubjectGoalCreated, data); err != nil {
		slog.Error("failed to publish goal created event", "goal_id", g.ID, "error", err)
	}
}
