package review

import (
	"context"
	"sync"
	"time"

	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
	"github.com/studypals/studypals/internal/srs"
)

// reservedSlot marks a user slot claimed by a Start call that has not
// built its session yet. No real session ever carries this ID.
const reservedSlot = ""

// Manager enforces the one-active-session-per-user rule and owns the
// lifecycle of session controllers.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byUser   map[int64]string

	reviews  repository.ReviewRepository
	cards    repository.CardRepository
	onGraded func(ctx context.Context, userID int64, grade srs.Grade)
}

// NewManager creates a session manager. onGraded, if non-nil, runs after
// each successfully persisted grade (used to feed the pet); its failures
// never affect the review itself.
func NewManager(reviews repository.ReviewRepository, cards repository.CardRepository, onGraded func(context.Context, int64, srs.Grade)) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		byUser:   make(map[int64]string),
		reviews:  reviews,
		cards:    cards,
		onGraded: onGraded,
	}
}

// Start snapshots the user's due queue and begins a session. A second
// concurrent session for the same user is refused.
func (m *Manager) Start(ctx context.Context, userID int64) (*Session, error) {
	log := logger.FromContext(ctx).WithPrefix("review_manager")

	// Reserve the user's slot before touching storage. The reservation
	// is what makes two racing Start calls serialize: the loser sees an
	// occupied slot here, not after both have loaded the same queue.
	m.mu.Lock()
	if id, ok := m.byUser[userID]; ok {
		existing := m.sessions[id]
		if existing == nil || !existing.Snapshot().State.Terminal() {
			m.mu.Unlock()
			return nil, errors.NewConflictError("a review session is already active for this user")
		}
	}
	m.byUser[userID] = reservedSlot
	m.mu.Unlock()

	records, err := m.reviews.LoadRecordsForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load review records: %v", err)
		m.unreserve(userID)
		return nil, errors.NewInternalError(err)
	}
	for _, rec := range records {
		if err := srs.Validate(rec); err != nil {
			// Corrupt scheduling data is surfaced, not repaired.
			log.Error("refusing to start session: %v", err)
			m.unreserve(userID)
			return nil, err
		}
	}

	queue := srs.DueQueue(records, time.Now())

	cardList, err := m.cards.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load cards: %v", err)
		m.unreserve(userID)
		return nil, errors.NewInternalError(err)
	}
	cards := make(map[int64]models.Card, len(cardList))
	for _, c := range cardList {
		cards[c.ID] = c
	}
	recs := make(map[int64]models.ReviewRecord, len(records))
	for _, rec := range records {
		recs[rec.CardID] = rec
	}

	session := newSession(userID, queue, cards, recs, m.reviews, m.onGraded)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.byUser[userID] = session.ID()
	m.mu.Unlock()

	log.Info("review session started: session_id=%s, user_id=%d, due=%d", session.ID(), userID, len(queue))
	session.start()
	return session, nil
}

// Get returns a session by handle.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}

// Cancel aborts a session and releases the user's session slot.
func (m *Manager) Cancel(sessionID string) (Snapshot, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	snap := session.Cancel()
	m.release(session)
	return snap, nil
}

// Release evicts a terminal session from the registry and frees the
// user's slot, letting the user start a fresh one.
func (m *Manager) Release(sessionID string) {
	if session, err := m.Get(sessionID); err == nil {
		m.release(session)
	}
}

func (m *Manager) release(session *Session) {
	if !session.Snapshot().State.Terminal() {
		return
	}
	m.mu.Lock()
	if m.byUser[session.UserID()] == session.ID() {
		delete(m.byUser, session.UserID())
	}
	delete(m.sessions, session.ID())
	m.mu.Unlock()
}

// unreserve rolls back a slot reservation after a failed start. A slot
// already claimed by a real session is left alone.
func (m *Manager) unreserve(userID int64) {
	m.mu.Lock()
	if m.byUser[userID] == reservedSlot {
		delete(m.byUser, userID)
	}
	m.mu.Unlock()
}
