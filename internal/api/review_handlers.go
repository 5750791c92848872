package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
)

type gradeRequest struct {
	Grade       string  `json:"grade" validate:"required,oneof=again hard good easy"`
	TimeSeconds float64 `json:"time_seconds" validate:"omitempty,min=0"`
}

func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if deckID := queryInt(r, "deck_id", 0); deckID > 0 {
		if _, err := s.DeckService.GetDeck(r.Context(), int64(deckID), user.ID); err != nil {
			handleError(w, r, err)
			return
		}
		due, err := s.ReviewService.DueForDeck(r.Context(), int64(deckID))
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, due)
		return
	}

	due, err := s.ReviewService.DueForUser(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, due)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	session, err := s.Sessions.Start(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("review session started: id=%s", session.ID())
	respondJSON(w, http.StatusCreated, session.Snapshot())
}

// Sessions belonging to another user are indistinguishable from missing
// ones, so handles cannot be probed across accounts.
func sessionNotFound(id string) error {
	return errors.NewNotFoundError("session", id)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session.UserID() != user.ID {
		handleError(w, r, sessionNotFound(session.ID()))
		return
	}
	respondJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleGradeCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session.UserID() != user.ID {
		handleError(w, r, sessionNotFound(session.ID()))
		return
	}

	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := session.SubmitGrade(r.Context(), req.Grade, req.TimeSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if snap.State.Terminal() {
		s.Sessions.Release(session.ID())
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRetryPersist(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session.UserID() != user.ID {
		handleError(w, r, sessionNotFound(session.ID()))
		return
	}

	snap, err := session.Retry(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if snap.State.Terminal() {
		s.Sessions.Release(session.ID())
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if session.UserID() != user.ID {
		handleError(w, r, sessionNotFound(session.ID()))
		return
	}

	snap, err := s.Sessions.Cancel(session.ID())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}
