package goal

import (
	"errors"
	"testing"

	"github.com/stridehq/stride/internal/domain"
)

func TestCheckBudget_WithinBudget(t *testing.T) {
	others := []Goal{
		{ID: "g1", Title: "Learn piano", Status: StatusActive, MinHoursPerWeek: 5},
		{ID: "g2", Title: "Marathon", Status: StatusActive, MinHoursPerWeek: 4},
	}

	if err := CheckBudget(15, 6, others); err != nil {
		t.Fatalf("expected 5+4+6=15 to fit in 15, got %v", err)
	}
}

func TestCheckBudget_Exceeded(t *testing.T) {
	others := []Goal{
		{ID: "g1", Title: "Learn piano", Status: StatusActive, MinHoursPerWeek: 5},
		{ID: "g2", Title: "Marathon", Status: StatusActive, MinHoursPerWeek: 4},
	}

	err := CheckBudget(10, 2, others)
	if err == nil {
		t.Fatal("expected budget_exceeded, got nil")
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict sentinel, got %v", err)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if de.Code != "budget_exceeded" {
		t.Errorf("code = %q, want budget_exceeded", de.Code)
	}
	if got := de.Details["requiredHoursPerWeek"]; got != 11.0 {
		t.Errorf("requiredHoursPerWeek = %v, want 11", got)
	}
	if got := de.Details["availableHoursPerWeek"]; got != 10.0 {
		t.Errorf("availableHoursPerWeek = %v, want 10", got)
	}

	conflicting, ok := de.Details["conflictingGoals"].([]ConflictingGoal)
	if !ok {
		t.Fatalf("conflictingGoals detail has type %T", de.Details["conflictingGoals"])
	}
	if len(conflicting) != 2 {
		t.Fatalf("conflicting goals = %d, want 2", len(conflicting))
	}
	if conflicting[0].ID != "g1" || conflicting[0].WeeklyHours != 5 {
		t.Errorf("first conflicting goal = %+v", conflicting[0])
	}
}

func TestCheckBudget_InactiveGoalsIgnored(t *testing.T) {
	others := []Goal{
		{ID: "g1", Status: StatusActive, MinHoursPerWeek: 5},
		{ID: "g2", Status: StatusPaused, MinHoursPerWeek: 100},
		{ID: "g3", Status: StatusCompleted, MinHoursPerWeek: 100},
		{ID: "g4", Status: StatusArchived, MinHoursPerWeek: 100},
	}

	if err := CheckBudget(10, 5, others); err != nil {
		t.Fatalf("inactive goals must not count against the budget: %v", err)
	}
}

func TestCheckBudget_ExactBoundary(t *testing.T) {
	others := []Goal{{ID: "g1", Status: StatusActive, MinHoursPerWeek: 7}}

	// required == available passes; one more fails.
	if err := CheckBudget(10, 3, others); err != nil {
		t.Fatalf("exact fit should pass: %v", err)
	}
	if err := CheckBudget(10, 3.5, others); err == nil {
		t.Fatal("over by half an hour should fail")
	}
}

func TestCheckAvailableHours(t *testing.T) {
	active := []Goal{
		{ID: "g1", Title: "Piano", Status: StatusActive, MinHoursPerWeek: 6},
		{ID: "g2", Title: "Run", Status: StatusActive, MinHoursPerWeek: 4},
	}

	if err := CheckAvailableHours(10, active); err != nil {
		t.Fatalf("lowering to exactly committed hours should pass: %v", err)
	}

	err := CheckAvailableHours(9, active)
	if err == nil {
		t.Fatal("lowering below committed hours should fail")
	}
	var de *domain.Error
	if !errors.As(err, &de) || de.Code != "budget_exceeded" {
		t.Fatalf("expected budget_exceeded, got %v", err)
	}
}

func TestActiveHours(t *testing.T) {
	goals := []Goal{
		{Status: StatusActive, MinHoursPerWeek: 2.5},
		{Status: StatusActive, MinHoursPerWeek: 3},
		{Status: StatusPaused, MinHoursPerWeek: 10},
	}
	if got := ActiveHours(goals); got != 5.5 {
		t.Errorf("ActiveHours = %v, want 5.5", got)
	}
}
