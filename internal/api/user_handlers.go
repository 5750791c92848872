package api

import (
	"net/http"

	"github.com/studypals/studypals/internal/logger"
)

type createUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=80"`
	Email       string `json:"email" validate:"required,email"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.UserService.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.CreateUser(r.Context(), req.DisplayName, req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("user created: id=%d", user.ID)
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.UserService.TouchUser(r.Context(), id); err != nil {
		log.Warn("failed to touch user %d: %v", id, err)
	}

	setUserCookie(w, user.ID)
	log.Info("user selected: id=%d", user.ID)
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.UserService.DeleteUser(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	clearUserCookie(w)
	log.Info("user deleted: id=%d", id)
	respondJSON(w, http.StatusNoContent, nil)
}
