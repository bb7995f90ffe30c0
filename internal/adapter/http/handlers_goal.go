package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/milestone"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/middleware"
)

// --- Goals ---

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	goals, err := h.Goals.List(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *Handlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	g, err := h.Goals.Get(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[goal.CreateRequest](w, r)
	if !ok {
		return
	}

	created, err := h.Goals.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[goal.UpdateRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.Goals.Update(r.Context(), u.ID, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if err := h.Goals.Delete(r.Context(), u.ID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Milestones ---

func (h *Handlers) ListMilestones(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	milestones, err := h.Milestones.List(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestones)
}

func (h *Handlers) GetMilestone(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	m, err := h.Milestones.Get(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[milestone.CreateRequest](w, r)
	if !ok {
		return
	}

	created, err := h.Milestones.Create(r.Context(), u.ID, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[milestone.UpdateRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.Milestones.Update(r.Context(), u.ID, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if err := h.Milestones.Delete(r.Context(), u.ID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Tasks ---

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	tasks, err := h.Tasks.List(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	t, err := h.Tasks.Get(r.Context(), u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[task.CreateRequest](w, r)
	if !ok {
		return
	}

	created, err := h.Tasks.Create(r.Context(), u.ID, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[task.UpdateRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.Tasks.Update(r.Context(), u.ID, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if err := h.Tasks.Delete(r.Context(), u.ID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
