package models

import "time"

type User struct {
	ID          int64      `json:"id"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSeenAt  *time.Time `json:"last_seen_at"`
}

type Deck struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

type CardFilter struct {
	DeckID   int64
	Tag      string
	Search   string
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

type Task struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Title            string     `json:"title"`
	Notes            string     `json:"notes"`
	Priority         int        `json:"priority"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	DueAt            *time.Time `json:"due_at"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

type TaskFilter struct {
	UserID    int64
	Status    string // "open", "completed" or empty for all
	Priority  int    // 0 matches all
	DueBefore *time.Time
	DueAfter  *time.Time
	Limit     int
	Offset    int
	OrderBy   string
	OrderDir  string
}
