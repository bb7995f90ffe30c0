package service

import (
	"context"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/milestone"
	"github.com/stridehq/stride/internal/port/database"
)

// MilestoneService handles milestone CRUD. Ownership is checked through the
// parent goal.
type MilestoneService struct {
	store database.Store
	goals *GoalService
}

// NewMilestoneService creates a new MilestoneService.
func NewMilestoneService(store database.Store, goals *GoalService) *MilestoneService {
	return &MilestoneService{store: store, goals: goals}
}

// List returns all milestones of a goal, enforcing goal ownership.
func (s *MilestoneService) List(ctx context.Context, userID, goalID string) ([]milestone.Milestone, error) {
	if _, err := s.goals.Get(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return s.store.ListMilestones(ctx, goalID)
}

// Get returns a milestone by ID, enforcing ownership through its goal.
func (s *MilestoneService) Get(ctx context.Context, userID, id string) (*milestone.Milestone, error) {
	m, err := s.store.GetMilestone(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.goals.Get(ctx, userID, m.GoalID); err != nil {
		return nil, err
	}
	return m, nil
}

// Create creates a milestone under a goal. A parent milestone, when given,
// must belong to the same goal.
func (s *MilestoneService) Create(ctx context.Context, userID, goalID string, req milestone.CreateRequest) (*milestone.Milestone, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.goals.Get(ctx, userID, goalID); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = milestone.StatusInProgress
	}

	if req.ParentMilestoneID != "" {
		parent, err := s.store.GetMilestone(ctx, req.ParentMilestoneID)
		if err != nil {
			return nil, err
		}
		if parent.GoalID != goalID {
			return nil, domain.Validationf("parent milestone belongs to a different goal")
		}
	}

	return s.store.CreateMilestone(ctx, &milestone.Milestone{
		GoalID:            goalID,
		ParentMilestoneID: req.ParentMilestoneID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
	})
}

// Update applies an update request to a milestone.
func (s *MilestoneService) Update(ctx context.Context, userID, id string, req milestone.UpdateRequest) (*milestone.Milestone, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	req.Apply(m)

	if err := s.store.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a milestone and, via the store's cascade, its tasks.
func (s *MilestoneService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteMilestone(ctx, id)
}
