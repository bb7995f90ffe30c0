package task

import (
	"errors"
	"testing"

	"github.com/stridehq/stride/internal/domain"
)

func TestCheckDateConflict_Collision(t *testing.T) {
	existing := []Task{
		{ID: "t1", MilestoneID: "m1", Date: "2026-09-01"},
		{ID: "t2", MilestoneID: "m1", Date: "2026-09-02"},
	}

	err := CheckDateConflict(existing, "m1", "2026-09-01", "")
	if err == nil {
		t.Fatal("expected date_conflict, got nil")
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict sentinel, got %v", err)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if de.Code != "date_conflict" {
		t.Errorf("code = %q, want date_conflict", de.Code)
	}
	ids, ok := de.Details["conflictingTaskIds"].([]string)
	if !ok || len(ids) != 1 || ids[0] != "t1" {
		t.Errorf("conflictingTaskIds = %v, want [t1]", de.Details["conflictingTaskIds"])
	}
}

func TestCheckDateConflict_FreeDay(t *testing.T) {
	existing := []Task{
		{ID: "t1", MilestoneID: "m1", Date: "2026-09-01"},
	}

	if err := CheckDateConflict(existing, "m1", "2026-09-03", ""); err != nil {
		t.Fatalf("free day should not conflict: %v", err)
	}
}

func TestCheckDateConflict_MilestoneScoped(t *testing.T) {
	// Same day under a different milestone is allowed.
	existing := []Task{
		{ID: "t1", MilestoneID: "m2", Date: "2026-09-01"},
	}

	if err := CheckDateConflict(existing, "m1", "2026-09-01", ""); err != nil {
		t.Fatalf("other milestones must not conflict: %v", err)
	}
}

func TestCheckDateConflict_ExcludesSelf(t *testing.T) {
	// Updating a task without moving its date must not collide with itself.
	existing := []Task{
		{ID: "t1", MilestoneID: "m1", Date: "2026-09-01"},
	}

	if err := CheckDateConflict(existing, "m1", "2026-09-01", "t1"); err != nil {
		t.Fatalf("task must not conflict with itself: %v", err)
	}
}
