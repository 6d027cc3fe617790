package controllers

import (
	"net/http"

	"github.com/jagman11/match--royale/models"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// SwipeController exposes the swipe deck of the signed-in user
type SwipeController struct {
	SwipeService *services.SwipeService
	Log          *zap.SugaredLogger
}

// NewSwipeController creates a new SwipeController instance
func NewSwipeController(swipeService *services.SwipeService, log *zap.SugaredLogger) *SwipeController {
	return &SwipeController{SwipeService: swipeService, Log: log}
}

type deckView struct {
	State     string              `json:"state"`
	Filters   services.Filters    `json:"filters"`
	Current   *models.UserProfile `json:"current"`
	Remaining int                 `json:"remaining"`
}

func viewOf(deck *services.Deck) deckView {
	current, _ := deck.Current()
	return deckView{
		State:     deck.State().String(),
		Filters:   deck.Filters(),
		Current:   current,
		Remaining: deck.Remaining(),
	}
}

// GetDeck returns the current card and deck state
func (c *SwipeController) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	deck, err := c.SwipeService.Deck(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to load candidates")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(deck))
}

// SetFilters rebuilds the deck with new gender and major filters
func (c *SwipeController) SetFilters(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var filters services.Filters
	if err := decodeJSON(w, r, &filters); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	deck, err := c.SwipeService.Deck(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to load candidates")
		return
	}
	if err := deck.SetFilters(r.Context(), filters); err != nil {
		respondError(w, c.Log, err, "Failed to apply filters")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(deck))
}

// Decide swipes the current card left or right
func (c *SwipeController) Decide(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		CandidateID string `json:"candidateId" validate:"required"`
		Direction   string `json:"direction" validate:"required,oneof=left right"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	deck, err := c.SwipeService.Deck(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to load candidates")
		return
	}
	decision, err := deck.Decide(r.Context(), payload.CandidateID, payload.Direction)
	if err != nil {
		respondError(w, c.Log, err, "Failed to record swipe")
		return
	}

	status := http.StatusOK
	if decision.Partial {
		status = http.StatusAccepted
	}
	writeJSON(w, status, decision)
}

// CloseDeck discards the deck when the user leaves the swipe screen
func (c *SwipeController) CloseDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	c.SwipeService.Close(userID)
	w.WriteHeader(http.StatusNoContent)
}
