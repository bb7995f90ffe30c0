package service

import (
	"context"
	"errors"

	"github.com/stridehq/stride/internal/adapter/otel"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/port/database"
)

// TaskService handles task CRUD with date-conflict enforcement. Like the
// budget check, the conflict check is read-then-decide-then-write with no
// cross-request mutual exclusion.
type TaskService struct {
	store      database.Store
	milestones *MilestoneService
	schedule   *ScheduleService
	metrics    *otel.Metrics
}

// NewTaskService creates a new TaskService. metrics may be nil.
func NewTaskService(store database.Store, milestones *MilestoneService, schedule *ScheduleService, metrics *otel.Metrics) *TaskService {
	return &TaskService{store: store, milestones: milestones, schedule: schedule, metrics: metrics}
}

// List returns all tasks of a milestone, enforcing ownership.
func (s *TaskService) List(ctx context.Context, userID, milestoneID string) ([]task.Task, error) {
	if _, err := s.milestones.Get(ctx, userID, milestoneID); err != nil {
		return nil, err
	}
	return s.store.ListTasksByMilestone(ctx, milestoneID)
}

// Get returns a task by ID, enforcing ownership.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, domain.Forbiddenf("task %s does not belong to the authenticated user", id)
	}
	return t, nil
}

// Create creates a task under a milestone after the date-conflict check.
func (s *TaskService) Create(ctx context.Context, userID, milestoneID string, req task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.milestones.Get(ctx, userID, milestoneID)
	if err != nil {
		return nil, err
	}

	if err := s.checkDate(ctx, milestoneID, req.Date, ""); err != nil {
		return nil, err
	}

	created, err := s.store.CreateTask(ctx, &task.Task{
		GoalID:         m.GoalID,
		MilestoneID:    milestoneID,
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		return nil, err
	}

	s.schedule.Invalidate(ctx, userID)
	return created, nil
}

// Update applies an update request. Moving a task to another date re-runs the
// conflict check with the task itself excluded from the comparison set.
func (s *TaskService) Update(ctx context.Context, userID, id string, req task.UpdateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil && *req.Date != t.Date {
		if err := s.checkDate(ctx, t.MilestoneID, *req.Date, t.ID); err != nil {
			return nil, err
		}
	}

	if req.Version != 0 {
		t.Version = req.Version
	}
	req.Apply(t)

	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}

	s.schedule.Invalidate(ctx, userID)
	return t, nil
}

// Delete removes a task, enforcing ownership.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.schedule.Invalidate(ctx, t.UserID)
	return nil
}

// checkDate runs the one-task-per-day-per-milestone validator.
func (s *TaskService) checkDate(ctx context.Context, milestoneID, date, excludeID string) error {
	existing, err := s.store.ListTasksByMilestone(ctx, milestoneID)
	if err != nil {
		return err
	}
	if err := task.CheckDateConflict(existing, milestoneID, date, excludeID); err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrConflict) {
			s.metrics.DateConflicts.Add(ctx, 1)
		}
		return err
	}
	return nil
}
