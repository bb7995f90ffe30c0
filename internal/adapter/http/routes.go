package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router. Auth
// middleware runs above this; public paths are exempted there.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.HealthReady)
	r.Get("/ws", h.ServeWS)

	r.Route("/v1", func(r chi.Router) {
		// Auth (public routes handled by middleware exemption)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Current user
		r.Get("/users/me", h.GetCurrentUser)
		r.Patch("/users/me", h.UpdateCurrentUser)

		// Agent sessions
		r.Post("/agent/goal/session:message", h.SendSessionMessage)
		r.Get("/agent/goal/session:latest", h.LatestSession)
		r.Get("/sessions/{id}/messages", h.GetTranscript)

		// Goal previews
		r.Get("/previews", h.ListPreviews)
		r.Get("/previews/{id}", h.GetPreview)

		// Scheduling context
		r.Get("/schedule/context", h.GetScheduleContext)

		// Goals
		r.Get("/goals", h.ListGoals)
		r.Post("/goals", h.CreateGoal)
		r.Get("/goals/{id}", h.GetGoal)
		r.Patch("/goals/{id}", h.UpdateGoal)
		r.Delete("/goals/{id}", h.DeleteGoal)

		// Milestones (nested under goals + direct access)
		r.Get("/goals/{id}/milestones", h.ListMilestones)
		r.Post("/goals/{id}/milestones", h.CreateMilestone)
		r.Get("/milestones/{id}", h.GetMilestone)
		r.Patch("/milestones/{id}", h.UpdateMilestone)
		r.Delete("/milestones/{id}", h.DeleteMilestone)

		// Tasks (nested under milestones + direct access)
		r.Get("/milestones/{id}/tasks", h.ListTasks)
		r.Post("/milestones/{id}/tasks", h.CreateTask)
		r.Get("/tasks/{id}", h.GetTask)
		r.Patch("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)
	})
}
