package review

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
	"github.com/studypals/studypals/internal/srs"
)

// State is the session controller's position in its lifecycle.
type State string

const (
	StateIdle          State = "idle"
	StatePresenting    State = "presenting"
	StateAwaitingGrade State = "awaiting_grade"
	StateAdvancing     State = "advancing"
	// StateRetry holds a graded-but-unpersisted outcome after a storage
	// failure. Retry re-persists it; the scheduler is never re-applied.
	StateRetry     State = "retry"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Snapshot is an immutable view of a session, emitted on every
// transition. Consumers never see the session's mutable internals.
type Snapshot struct {
	SessionID   string       `json:"session_id"`
	UserID      int64        `json:"user_id"`
	State       State        `json:"state"`
	CurrentCard *models.Card `json:"current_card,omitempty"`
	Position    int          `json:"position"`
	Total       int          `json:"total"`
	Graded      int          `json:"graded"`
	LastError   string       `json:"last_error,omitempty"`
}

type pendingOutcome struct {
	record models.ReviewRecord
	log    models.ReviewLog
}

// Session walks one user through the cards that were due when the
// session started. The due queue is snapshotted once at start and never
// re-queried, so cards becoming due mid-session cannot extend it.
type Session struct {
	mu      sync.Mutex
	id      string
	userID  int64
	queue   []int64
	cards   map[int64]models.Card
	records map[int64]models.ReviewRecord
	pos     int
	graded  int
	state   State
	pending *pendingOutcome
	lastErr string

	reviews  repository.ReviewRepository
	onGraded func(ctx context.Context, userID int64, grade srs.Grade)
	updates  chan Snapshot
}

func newSession(userID int64, queue []int64, cards map[int64]models.Card, records map[int64]models.ReviewRecord, reviews repository.ReviewRepository, onGraded func(context.Context, int64, srs.Grade)) *Session {
	return &Session{
		id:       uuid.NewString(),
		userID:   userID,
		queue:    queue,
		cards:    cards,
		records:  records,
		state:    StateIdle,
		reviews:  reviews,
		onGraded: onGraded,
		updates:  make(chan Snapshot, len(queue)*4+8),
	}
}

// ID returns the session handle.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user.
func (s *Session) UserID() int64 { return s.userID }

// Updates returns the snapshot subscription channel. It is closed when
// the session reaches a terminal state.
func (s *Session) Updates() <-chan Snapshot { return s.updates }

// Snapshot returns the current immutable view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		UserID:    s.userID,
		State:     s.state,
		Position:  s.pos,
		Total:     len(s.queue),
		Graded:    s.graded,
		LastError: s.lastErr,
	}
	if s.pos < len(s.queue) && !s.state.Terminal() {
		if card, ok := s.cards[s.queue[s.pos]]; ok {
			c := card
			snap.CurrentCard = &c
		}
	}
	return snap
}

func (s *Session) emitLocked() {
	snap := s.snapshotLocked()
	select {
	case s.updates <- snap:
	default:
		// Slow subscriber; Snapshot() still returns current state.
	}
}

// start moves Idle to the first card, or straight to Completed when the
// due queue snapshot is empty.
func (s *Session) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}
	if len(s.queue) == 0 {
		s.finishLocked(StateCompleted)
		return
	}
	s.state = StatePresenting
	s.emitLocked()
	s.state = StateAwaitingGrade
	s.emitLocked()
}

// SubmitGrade grades the current card. The scheduler runs exactly once
// per outcome; a persistence failure parks the result in the retry state
// without losing it.
func (s *Session) SubmitGrade(ctx context.Context, rawGrade string, timeSeconds float64) (Snapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("review_session")

	grade, err := srs.ParseGrade(rawGrade)
	if err != nil {
		// Fail fast: no state mutation on malformed input.
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingGrade {
		return s.snapshotLocked(), errors.NewConflictError("session is not awaiting a grade")
	}

	cardID := s.queue[s.pos]
	rec, ok := s.records[cardID]
	if !ok {
		rec = models.NewReviewRecord(cardID, time.Now())
	}

	s.state = StateAdvancing
	now := time.Now()
	updated, err := srs.Apply(rec, srs.Outcome{CardID: cardID, Grade: grade, ReviewedAt: now})
	if err != nil {
		s.state = StateAwaitingGrade
		return s.snapshotLocked(), err
	}

	s.pending = &pendingOutcome{
		record: updated,
		log: models.ReviewLog{
			CardID:      cardID,
			Grade:       string(grade),
			TimeSeconds: timeSeconds,
			ReviewedAt:  now,
		},
	}

	if err := s.persistPendingLocked(ctx); err != nil {
		log.Warn("persist failed for card %d, holding outcome for retry: %v", cardID, err)
		return s.snapshotLocked(), errors.NewPersistError(err)
	}

	if s.onGraded != nil {
		s.onGraded(ctx, s.userID, grade)
	}
	s.advanceLocked()
	return s.snapshotLocked(), nil
}

// Retry re-persists the outcome held after a storage failure. It never
// re-grades: the scheduler result is reused as-is.
func (s *Session) Retry(ctx context.Context) (Snapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("review_session")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRetry || s.pending == nil {
		return s.snapshotLocked(), errors.NewConflictError("session has no pending outcome to retry")
	}

	grade := srs.Grade(s.pending.log.Grade)
	if err := s.persistPendingLocked(ctx); err != nil {
		log.Warn("retry persist failed for card %d: %v", s.pending.record.CardID, err)
		return s.snapshotLocked(), errors.NewPersistError(err)
	}

	if s.onGraded != nil {
		s.onGraded(ctx, s.userID, grade)
	}
	s.advanceLocked()
	return s.snapshotLocked(), nil
}

func (s *Session) persistPendingLocked(ctx context.Context) error {
	if err := s.reviews.SaveRecord(ctx, s.pending.record); err != nil {
		s.state = StateRetry
		s.lastErr = err.Error()
		s.emitLocked()
		return err
	}
	// History is best-effort; a lost log row must not fail the review.
	if err := s.reviews.AppendLog(ctx, s.pending.log); err != nil {
		logger.FromContext(ctx).Warn("failed to append review log: %v", err)
	}
	s.records[s.pending.record.CardID] = s.pending.record
	s.pending = nil
	s.lastErr = ""
	return nil
}

func (s *Session) advanceLocked() {
	s.graded++
	s.pos++
	if s.pos >= len(s.queue) {
		s.finishLocked(StateCompleted)
		return
	}
	s.state = StatePresenting
	s.emitLocked()
	s.state = StateAwaitingGrade
	s.emitLocked()
}

// Cancel aborts the session. Grades already persisted remain valid; a
// pending unpersisted grade, if any, is discarded.
func (s *Session) Cancel() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return s.snapshotLocked()
	}
	s.pending = nil
	s.finishLocked(StateCancelled)
	return s.snapshotLocked()
}

func (s *Session) finishLocked(state State) {
	s.state = state
	s.emitLocked()
	close(s.updates)
}
