package api

import (
	"net/http"

	"github.com/studypals/studypals/internal/models"
)

type createDeckRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=1000"`
}

type addCardRequest struct {
	Front string `json:"front" validate:"required,min=1,max=2000"`
	Back  string `json:"back" validate:"required,min=1,max=2000"`
	Tag   string `json:"tag" validate:"max=60"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.DeckService.ListDecks(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.GetDeck(r.Context(), id, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	due, err := s.ReviewService.DueForDeck(r.Context(), deck.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deck": deck, "due": due})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteDeck(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deckID, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req addCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.DeckService.AddCard(r.Context(), deckID, user.ID, req.Front, req.Back, req.Tag)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	deckID, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.CardFilter{
		DeckID:   deckID,
		Tag:      r.URL.Query().Get("tag"),
		Search:   r.URL.Query().Get("q"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
		OrderBy:  r.URL.Query().Get("order_by"),
		OrderDir: r.URL.Query().Get("order_dir"),
	}

	cards, total, err := s.DeckService.ListCards(r.Context(), user.ID, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards, "total": total})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteCard(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
