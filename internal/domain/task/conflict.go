package task

import "github.com/stridehq/stride/internal/domain"

// CheckDateConflict enforces the one-task-per-day-per-milestone rule: no two
// tasks under the same milestone may share a date. existing is the comparison
// set (typically all tasks of the milestone); excludeID removes the task being
// updated from it. The rule is deliberately milestone-scoped: tasks of other
// milestones or goals on the same day do not conflict.
func CheckDateConflict(existing []Task, milestoneID, date, excludeID string) error {
	var colliding []string
	for i := range existing {
		t := &existing[i]
		if t.ID == excludeID || t.MilestoneID != milestoneID {
			continue
		}
		if t.Date == date {
			colliding = append(colliding, t.ID)
		}
	}
	if len(colliding) == 0 {
		return nil
	}
	return domain.Conflictf("date_conflict",
		"milestone %s already has a task on %s", milestoneID, date).
		WithDetail("conflictingTaskIds", colliding).
		WithDetail("date", date)
}
