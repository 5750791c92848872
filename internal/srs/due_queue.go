package srs

import (
	"sort"
	"time"

	"github.com/studypals/studypals/internal/models"
)

// DueQueue returns the card IDs whose review time has passed, ordered
// earliest-overdue first. Ties on due time break by card ID ascending so
// the ordering is deterministic. The input records are not mutated.
func DueQueue(records []models.ReviewRecord, now time.Time) []int64 {
	due := make([]models.ReviewRecord, 0, len(records))
	for _, rec := range records {
		if !rec.DueAt.After(now) {
			due = append(due, rec)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].CardID < due[j].CardID
	})

	ids := make([]int64, len(due))
	for i, rec := range due {
		ids[i] = rec.CardID
	}
	return ids
}

// DueCount is the number of cards currently due. This is the exact value
// dashboard clients display.
func DueCount(records []models.ReviewRecord, now time.Time) int {
	n := 0
	for _, rec := range records {
		if !rec.DueAt.After(now) {
			n++
		}
	}
	return n
}
