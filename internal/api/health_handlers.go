package api

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRunReminders(w http.ResponseWriter, r *http.Request) {
	if err := s.Jobs.EnqueueReminderScan(); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
