// Package goal defines the Goal domain entity and the weekly hour-budget
// validator.
package goal

import (
	"time"

	"github.com/stridehq/stride/internal/domain"
)

// Status represents the lifecycle state of a goal. Only active goals count
// against the owner's weekly hour budget.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusArchived  Status = "archived"
)

// ValidStatuses is the set of all valid goal statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusPaused:    true,
	StatusArchived:  true,
}

// Goal represents a long-running objective owned by a user.
type Goal struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Status          Status    `json:"status"`
	MinHoursPerWeek float64   `json:"minHoursPerWeek"`
	Priority        int       `json:"priority"`
	Color           string    `json:"color,omitempty"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateRequest holds the fields needed to create a new goal.
type CreateRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Status          Status  `json:"status,omitempty"` // defaults to active
	MinHoursPerWeek float64 `json:"minHoursPerWeek"`
	Priority        int     `json:"priority"`
	Color           string  `json:"color,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return domain.Validationf("title is required")
	}
	if r.MinHoursPerWeek < 0 {
		return domain.Validationf("minHoursPerWeek must not be negative")
	}
	if r.Status != "" && !ValidStatuses[r.Status] {
		return domain.Validationf("invalid status %q", r.Status)
	}
	return nil
}

// UpdateRequest is the input for updating an existing goal. Nil fields are
// left unchanged.
type UpdateRequest struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Status          *Status  `json:"status,omitempty"`
	MinHoursPerWeek *float64 `json:"minHoursPerWeek,omitempty"`
	Priority        *int     `json:"priority,omitempty"`
	Color           *string  `json:"color,omitempty"`
	Version         int      `json:"version"` // expected current version for CAS
}

// Validate checks range and enum constraints on the provided fields.
func (r *UpdateRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return domain.Validationf("title must not be empty")
	}
	if r.MinHoursPerWeek != nil && *r.MinHoursPerWeek < 0 {
		return domain.Validationf("minHoursPerWeek must not be negative")
	}
	if r.Status != nil && !ValidStatuses[*r.Status] {
		return domain.Validationf("invalid status %q", *r.Status)
	}
	return nil
}

// Apply copies the non-nil request fields onto g.
func (r *UpdateRequest) Apply(g *Goal) {
	if r.Title != nil {
		g.Title = *r.Title
	}
	if r.Description != nil {
		g.Description = *r.Description
	}
	if r.Status != nil {
		g.Status = *r.Status
	}
	if r.MinHoursPerWeek != nil {
		g.MinHoursPerWeek = *r.MinHoursPerWeek
	}
	if r.Priority != nil {
		g.Priority = *r.Priority
	}
	if r.Color != nil {
		g.Color = *r.Color
	}
}
