package service

import (
	"context"
	"testing"
	"time"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
)

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func TestScheduleService_AvailableHoursLeft(t *testing.T) {
	store := &mockStore{}
	svc := NewScheduleService(store, nil, 0)
	svc.now = fixedNow
	ctx := context.Background()

	u := seedUser(store, 10)
	store.goals = []goal.Goal{
		{ID: "g1", UserID: u.ID, Status: goal.StatusActive, MinHoursPerWeek: 4},
		{ID: "g2", UserID: u.ID, Status: goal.StatusActive, MinHoursPerWeek: 3},
		{ID: "g3", UserID: u.ID, Status: goal.StatusPaused, MinHoursPerWeek: 50},
	}

	sc, err := svc.Context(ctx, u)
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if sc.AvailableHoursLeft != 3 {
		t.Errorf("availableHoursLeft = %v, want 3", sc.AvailableHoursLeft)
	}
}

func TestScheduleService_ClampsAtZero(t *testing.T) {
	store := &mockStore{}
	svc := NewScheduleService(store, nil, 0)
	svc.now = fixedNow
	ctx := context.Background()

	// Availability lowered after goals were created; never report negative.
	u := seedUser(store, 5)
	store.goals = []goal.Goal{
		{ID: "g1", UserID: u.ID, Status: goal.StatusActive, MinHoursPerWeek: 9},
	}

	sc, err := svc.Context(ctx, u)
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if sc.AvailableHoursLeft != 0 {
		t.Errorf("availableHoursLeft = %v, want 0", sc.AvailableHoursLeft)
	}
}

func TestScheduleService_UpcomingWindow(t *testing.T) {
	store := &mockStore{}
	svc := NewScheduleService(store, nil, 0)
	svc.now = fixedNow
	ctx := context.Background()

	u := seedUser(store, 10)
	store.tasks = []task.Task{
		{ID: "t-yesterday", UserID: u.ID, Date: "2026-08-31"},
		{ID: "t-today", UserID: u.ID, Date: "2026-09-01"},
		{ID: "t-last-in", UserID: u.ID, Date: "2026-09-07"},
		{ID: "t-first-out", UserID: u.ID, Date: "2026-09-08"},
		{ID: "t-done", UserID: u.ID, Date: "2026-09-03", Done: true},
	}

	sc, err := svc.Context(ctx, u)
	if err != nil {
		t.Fatalf("context: %v", err)
	}

	got := make([]string, 0, len(sc.UpcomingTasks))
	for _, ut := range sc.UpcomingTasks {
		got = append(got, ut.ID)
	}
	// Window is [today, today+7d); done tasks are excluded; sorted by date.
	want := []string{"t-today", "t-last-in"}
	if len(got) != len(want) {
		t.Fatalf("upcoming = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("upcoming = %v, want %v", got, want)
		}
	}
}

func TestScheduleService_SortedByDate(t *testing.T) {
	store := &mockStore{}
	svc := NewScheduleService(store, nil, 0)
	svc.now = fixedNow
	ctx := context.Background()

	u := seedUser(store, 10)
	store.tasks = []task.Task{
		{ID: "t3", UserID: u.ID, Date: "2026-09-05"},
		{ID: "t1", UserID: u.ID, Date: "2026-09-01"},
		{ID: "t2", UserID: u.ID, Date: "2026-09-03"},
	}

	sc, err := svc.Context(ctx, u)
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	for i := 1; i < len(sc.UpcomingTasks); i++ {
		if sc.UpcomingTasks[i-1].Date > sc.UpcomingTasks[i].Date {
			t.Fatalf("tasks not sorted by date: %+v", sc.UpcomingTasks)
		}
	}
}
