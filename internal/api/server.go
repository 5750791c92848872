package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studypals/studypals/internal/jobs"
	"github.com/studypals/studypals/internal/review"
	"github.com/studypals/studypals/internal/services"
)

type Server struct {
	UserService   services.UserService
	DeckService   services.DeckService
	TaskService   services.TaskService
	ReviewService services.ReviewService
	StatsService  services.StatsService
	PetService    services.PetService
	Sessions      *review.Manager
	Jobs          jobs.JobQueue
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.userMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Get("/users", s.handleListUsers)
	r.Post("/users", s.handleCreateUser)
	r.Post("/users/{id}/select", s.handleSelectUser)
	r.Post("/users/{id}/delete", s.handleDeleteUser)

	r.Get("/decks", s.handleListDecks)
	r.Post("/decks", s.handleCreateDeck)
	r.Get("/decks/{id}", s.handleGetDeck)
	r.Post("/decks/{id}/delete", s.handleDeleteDeck)
	r.Post("/decks/{id}/cards", s.handleAddCard)
	r.Get("/decks/{id}/cards", s.handleListCards)
	r.Post("/cards/{id}/delete", s.handleDeleteCard)

	r.Get("/tasks", s.handleListTasks)
	r.Post("/tasks", s.handleCreateTask)
	r.Get("/tasks/{id}", s.handleGetTask)
	r.Post("/tasks/{id}", s.handleUpdateTask)
	r.Post("/tasks/{id}/complete", s.handleCompleteTask)
	r.Post("/tasks/{id}/delete", s.handleDeleteTask)

	r.Get("/review/due", s.handleDue)
	r.Post("/review/sessions", s.handleStartSession)
	r.Get("/review/sessions/{id}", s.handleGetSession)
	r.Post("/review/sessions/{id}/grade", s.handleGradeCard)
	r.Post("/review/sessions/{id}/retry", s.handleRetryPersist)
	r.Post("/review/sessions/{id}/cancel", s.handleCancelSession)

	r.Get("/stats/decks", s.handleDeckStats)
	r.Get("/stats/reviews", s.handleReviewStats)
	r.Get("/stats/streak", s.handleStreak)

	r.Get("/pet", s.handleGetPet)
	r.Post("/pet", s.handleAdoptPet)

	r.Post("/reminders/run", s.handleRunReminders)

	return r
}
