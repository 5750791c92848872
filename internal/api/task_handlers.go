package api

import (
	"net/http"
	"time"

	"github.com/studypals/studypals/internal/models"
)

type taskRequest struct {
	Title            string     `json:"title" validate:"required,min=1,max=200"`
	Notes            string     `json:"notes" validate:"max=4000"`
	Priority         int        `json:"priority" validate:"omitempty,min=1,max=3"`
	EstimatedMinutes int        `json:"estimated_minutes" validate:"omitempty,min=0,max=1440"`
	DueAt            *time.Time `json:"due_at"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	filter := models.TaskFilter{
		UserID:   user.ID,
		Status:   r.URL.Query().Get("status"),
		Priority: queryInt(r, "priority", 0),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
		OrderBy:  r.URL.Query().Get("order_by"),
		OrderDir: r.URL.Query().Get("order_dir"),
	}
	if v := r.URL.Query().Get("due_before"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DueBefore = &t
		}
	}
	if v := r.URL.Query().Get("due_after"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DueAfter = &t
		}
	}

	tasks, total, err := s.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "total": total})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.TaskService.CreateTask(r.Context(), models.Task{
		UserID:           user.ID,
		Title:            req.Title,
		Notes:            req.Notes,
		Priority:         req.Priority,
		EstimatedMinutes: req.EstimatedMinutes,
		DueAt:            req.DueAt,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.TaskService.GetTask(r.Context(), id, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.TaskService.UpdateTask(r.Context(), models.Task{
		ID:               id,
		UserID:           user.ID,
		Title:            req.Title,
		Notes:            req.Notes,
		Priority:         req.Priority,
		EstimatedMinutes: req.EstimatedMinutes,
		DueAt:            req.DueAt,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	task, err := s.TaskService.CompleteTask(r.Context(), id, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
