package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/domain/user"
	"github.com/stridehq/stride/internal/port/cache"
	"github.com/stridehq/stride/internal/port/database"
)

// upcomingWindowDays is the length of the upcoming-tasks window: tasks dated
// within [today, today+7d), today inclusive.
const upcomingWindowDays = 7

// UpcomingTask is the trimmed task view handed to the planning agent.
type UpcomingTask struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	GoalID         string  `json:"goalId"`
	MilestoneID    string  `json:"milestoneId"`
	Date           string  `json:"date"`
	EstimatedHours float64 `json:"estimatedHours"`
	Done           bool    `json:"done"`
}

// ScheduleContext is the scheduling context seeded into new sessions and
// forwarded to the agent on every turn.
type ScheduleContext struct {
	AvailableHoursLeft float64        `json:"availableHoursLeft"`
	UpcomingTasks      []UpcomingTask `json:"upcomingTasks"`
}

// ScheduleService derives scheduling context from the goal and task stores.
// It is a pure read path; results are briefly memoized in the cache and
// invalidated whenever a goal or task of the user changes.
type ScheduleService struct {
	store database.Store
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time // for testing
}

// NewScheduleService creates a new ScheduleService. cache may be nil to
// disable memoization.
func NewScheduleService(store database.Store, c cache.Cache, ttl time.Duration) *ScheduleService {
	return &ScheduleService{store: store, cache: c, ttl: ttl, now: time.Now}
}

// Context computes the scheduling context for a user.
func (s *ScheduleService) Context(ctx context.Context, u *user.User) (*ScheduleContext, error) {
	key := "schedule:" + u.ID
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var cached ScheduleContext
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var goals []goal.Goal
	var tasks []task.Task

	today := s.now().Format(task.DateLayout)
	end := s.now().AddDate(0, 0, upcomingWindowDays).Format(task.DateLayout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gctx, u.ID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.store.ListTasksInRange(gctx, u.ID, today, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sc := &ScheduleContext{
		AvailableHoursLeft: availableHoursLeft(u.AvailableHoursPerWeek, goals),
		UpcomingTasks:      upcomingTasks(tasks),
	}

	if s.cache != nil {
		if data, err := json.Marshal(sc); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				slog.Debug("schedule cache set failed", "user_id", u.ID, "error", err)
			}
		}
	}
	return sc, nil
}

// Invalidate drops the memoized context for a user. Called by the goal and
// task services after any mutation.
func (s *ScheduleService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "schedule:"+userID); err != nil {
		slog.Debug("schedule cache invalidate failed", "user_id", userID, "error", err)
	}
}

// availableHoursLeft is the user's weekly availability minus the hours
// committed to active goals, clamped at zero.
func availableHoursLeft(weekly float64, goals []goal.Goal) float64 {
	left := weekly - goal.ActiveHours(goals)
	if left < 0 {
		return 0
	}
	return left
}

// upcomingTasks reduces the window's tasks to the not-done trimmed view,
// sorted by date ascending. The sort is stable so same-day tasks keep their
// store order.
func upcomingTasks(tasks []task.Task) []UpcomingTask {
	out := make([]UpcomingTask, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if t.Done {
			continue
		}
		out = append(out, UpcomingTask{
			ID:             t.ID,
			Title:          t.Title,
			GoalID:         t.GoalID,
			MilestoneID:    t.MilestoneID,
			Date:           t.Date,
			EstimatedHours: t.EstimatedHours,
			Done:           t.Done,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
