package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/user"
)

func newTestGoalService(store *mockStore) *GoalService {
	schedule := NewScheduleService(store, nil, 0)
	return NewGoalService(store, nil, schedule, nil)
}

func seedUser(store *mockStore, hours float64) *user.User {
	u, _ := store.CreateUser(context.Background(), &user.User{
		Email:                 "test@example.com",
		Name:                  "Test User",
		AvailableHoursPerWeek: hours,
	})
	return u
}

func TestGoalService_CreateWithinBudget(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 10)

	g, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Learn piano", MinHoursPerWeek: 6})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.Status != goal.StatusActive {
		t.Errorf("status = %q, want active by default", g.Status)
	}
	if g.Version != 1 {
		t.Errorf("version = %d, want 1", g.Version)
	}
}

func TestGoalService_CreateExceedsAvailabilityAlone(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 20)

	// A single goal can blow the budget on its own.
	_, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Everything", MinHoursPerWeek: 25})
	var de *domain.Error
	if !errors.As(err, &de) || de.Code != "budget_exceeded" {
		t.Fatalf("expected budget_exceeded, got %v", err)
	}
	if de.Details["requiredHoursPerWeek"] != 25.0 {
		t.Errorf("requiredHoursPerWeek = %v, want 25", de.Details["requiredHoursPerWeek"])
	}
	if len(store.goals) != 0 {
		t.Error("rejected goal must not be persisted")
	}
}

func TestGoalService_CreateBudgetExceeded(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 10)

	if _, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Piano", MinHoursPerWeek: 6}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Marathon", MinHoursPerWeek: 5})
	if err == nil {
		t.Fatal("expected budget_exceeded for 6+5 > 10")
	}
	var de *domain.Error
	if !errors.As(err, &de) || de.Code != "budget_exceeded" {
		t.Fatalf("expected budget_exceeded, got %v", err)
	}
}

func TestGoalService_CreateInactiveSkipsBudget(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 10)

	if _, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Piano", MinHoursPerWeek: 6}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// A paused goal can exceed the budget; it does not count.
	if _, err := svc.Create(ctx, u.ID, goal.CreateRequest{
		Title: "Someday", Status: goal.StatusPaused, MinHoursPerWeek: 100,
	}); err != nil {
		t.Fatalf("paused create should skip budget check: %v", err)
	}
}

func TestGoalService_ReactivateRunsBudget(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 10)

	if _, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Piano", MinHoursPerWeek: 8}); err != nil {
		t.Fatalf("create: %v", err)
	}
	paused, err := svc.Create(ctx, u.ID, goal.CreateRequest{
		Title: "Marathon", Status: goal.StatusPaused, MinHoursPerWeek: 5,
	})
	if err != nil {
		t.Fatalf("create paused: %v", err)
	}

	active := goal.StatusActive
	_, err = svc.Update(ctx, u.ID, paused.ID, goal.UpdateRequest{Status: &active, Version: paused.Version})
	if err == nil {
		t.Fatal("reactivating into an exhausted budget should fail")
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGoalService_UpdateStaleVersion(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 40)

	g, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Piano", MinHoursPerWeek: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Piano grade 3"
	if _, err := svc.Update(ctx, u.ID, g.ID, goal.UpdateRequest{Title: &title, Version: g.Version}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// Replaying the original version must be rejected.
	title2 := "Piano grade 4"
	_, err = svc.Update(ctx, u.ID, g.ID, goal.UpdateRequest{Title: &title2, Version: g.Version})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestGoalService_OwnershipEnforced(t *testing.T) {
	store := &mockStore{}
	svc := newTestGoalService(store)
	ctx := context.Background()
	u := seedUser(store, 40)

	g, err := svc.Create(ctx, u.ID, goal.CreateRequest{Title: "Piano", MinHoursPerWeek: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(ctx, "someone-else", g.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
