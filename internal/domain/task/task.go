// Package task defines the Task domain entity and the one-task-per-day
// date-conflict validator.
package task

import (
	"time"

	"github.com/stridehq/stride/internal/domain"
)

// DateLayout is the calendar-day format used for task dates.
const DateLayout = "2006-01-02"

// Task represents a single day's unit of work under a milestone. GoalID and
// UserID are denormalized from the owning milestone for query convenience.
type Task struct {
	ID             string    `json:"id"`
	GoalID         string    `json:"goalId"`
	MilestoneID    string    `json:"milestoneId"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Date           string    `json:"date"` // calendar day, DateLayout
	EstimatedHours float64   `json:"estimatedHours"`
	Done           bool      `json:"done"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateRequest holds the fields needed to create a new task.
type CreateRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Date           string  `json:"date"`
	EstimatedHours float64 `json:"estimatedHours"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return domain.Validationf("title is required")
	}
	if err := validateDate(r.Date); err != nil {
		return err
	}
	if r.EstimatedHours < 0 {
		return domain.Validationf("estimatedHours must not be negative")
	}
	return nil
}

// UpdateRequest is the input for updating an existing task. Nil fields are
// left unchanged.
type UpdateRequest struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Date           *string  `json:"date,omitempty"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	Done           *bool    `json:"done,omitempty"`
	Version        int      `json:"version"` // expected current version for CAS
}

// Validate checks format and range constraints on the provided fields.
func (r *UpdateRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return domain.Validationf("title must not be empty")
	}
	if r.Date != nil {
		if err := validateDate(*r.Date); err != nil {
			return err
		}
	}
	if r.EstimatedHours != nil && *r.EstimatedHours < 0 {
		return domain.Validationf("estimatedHours must not be negative")
	}
	return nil
}

// Apply copies the non-nil request fields onto t.
func (r *UpdateRequest) Apply(t *Task) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Date != nil {
		t.Date = *r.Date
	}
	if r.EstimatedHours != nil {
		t.EstimatedHours = *r.EstimatedHours
	}
	if r.Done != nil {
		t.Done = *r.Done
	}
}

func validateDate(date string) error {
	if date == "" {
		return domain.Validationf("date is required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return domain.Validationf("date must be a calendar day in %s format", DateLayout)
	}
	return nil
}
