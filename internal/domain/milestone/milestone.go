// Package milestone defines the Milestone domain entity.
package milestone

import (
	"time"

	"github.com/stridehq/stride/internal/domain"
)

// Status represents the progress state of a milestone.
type Status string

const (
	StatusBlocked    Status = "blocked"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// ValidStatuses is the set of all valid milestone statuses.
var ValidStatuses = map[Status]bool{
	StatusBlocked:    true,
	StatusInProgress: true,
	StatusFinished:   true,
}

// Milestone represents an intermediate checkpoint within a goal. A milestone
// may nest under a parent milestone of the same goal.
type Milestone struct {
	ID                string    `json:"id"`
	GoalID            string    `json:"goalId"`
	ParentMilestoneID string    `json:"parentMilestoneId,omitempty"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateRequest holds the fields needed to create a new milestone.
type CreateRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Status            Status `json:"status,omitempty"` // defaults to in_progress
	ParentMilestoneID string `json:"parentMilestoneId,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return domain.Validationf("title is required")
	}
	if r.Status != "" && !ValidStatuses[r.Status] {
		return domain.Validationf("invalid status %q", r.Status)
	}
	return nil
}

// UpdateRequest is the input for updating an existing milestone. Nil fields
// are left unchanged.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Validate checks enum constraints on the provided fields.
func (r *UpdateRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return domain.Validationf("title must not be empty")
	}
	if r.Status != nil && !ValidStatuses[*r.Status] {
		return domain.Validationf("invalid status %q", *r.Status)
	}
	return nil
}

// Apply copies the non-nil request fields onto m.
func (r *UpdateRequest) Apply(m *Milestone) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}
