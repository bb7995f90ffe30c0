package goal

import "github.com/stridehq/stride/internal/domain"

// ConflictingGoal is the trimmed goal view reported in budget-exceeded errors.
type ConflictingGoal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	WeeklyHours float64 `json:"weeklyHours"`
}

// ActiveHours sums minHoursPerWeek over the active goals in goals.
func ActiveHours(goals []Goal) float64 {
	var sum float64
	for i := range goals {
		if goals[i].Status == StatusActive {
			sum += goals[i].MinHoursPerWeek
		}
	}
	return sum
}

// CheckBudget validates that candidateHours plus the weekly hours of the
// user's other active goals fits within availableHours. others must already
// exclude the goal being created or updated; inactive goals in others are
// ignored. On violation it returns a budget_exceeded conflict carrying the
// offending total and the list of conflicting active goals.
func CheckBudget(availableHours, candidateHours float64, others []Goal) error {
	required := candidateHours
	var conflicting []ConflictingGoal
	for i := range others {
		g := &others[i]
		if g.Status != StatusActive {
			continue
		}
		required += g.MinHoursPerWeek
		conflicting = append(conflicting, ConflictingGoal{
			ID:          g.ID,
			Title:       g.Title,
			WeeklyHours: g.MinHoursPerWeek,
		})
	}
	if required <= availableHours {
		return nil
	}
	err := domain.Conflictf("budget_exceeded",
		"active goals require %.1f hours per week but only %.1f are available", required, availableHours).
		WithDetail("requiredHoursPerWeek", required).
		WithDetail("availableHoursPerWeek", availableHours)
	if len(conflicting) > 0 {
		err = err.WithDetail("conflictingGoals", conflicting)
	}
	return err
}

// CheckAvailableHours validates that a user's (new) weekly availability still
// covers the total hours of their current active goals. Used when a user
// lowers availableHoursPerWeek.
func CheckAvailableHours(newAvailableHours float64, active []Goal) error {
	return CheckBudget(newAvailableHours, 0, active)
}
