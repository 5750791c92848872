package api

import "net/http"

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	stats, err := s.StatsService.DeckDueStats(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"decks": stats})
}

func (s *Server) handleReviewStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	days := queryInt(r, "days", 30)
	stats, err := s.StatsService.DailyReviewStats(r.Context(), user.ID, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"days": stats})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	streak, err := s.StatsService.Streak(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"streak_days": streak})
}
