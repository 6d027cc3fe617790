package controllers

import (
	"errors"
	"net/http"

	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// MatchController handles HTTP requests for match-related actions
type MatchController struct {
	MatchService *services.MatchService
	Log          *zap.SugaredLogger
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, log *zap.SugaredLogger) *MatchController {
	return &MatchController{MatchService: matchService, Log: log}
}

// CreateMatch records a mutual match between the signed-in user and userId.
// A match written on one side only answers 202 with a notice.
func (c *MatchController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		UserID string `json:"userId" validate:"required"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	err := c.MatchService.RecordMatch(r.Context(), userID, payload.UserID)
	if errors.Is(err, services.ErrPartialMatch) {
		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "Match recorded",
			"userId":  payload.UserID,
			"notice":  "the match is still being saved for " + payload.UserID,
		})
		return
	}
	if err != nil {
		respondError(w, c.Log, err, "Failed to record match")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Match recorded",
		"userId":  payload.UserID,
	})
}

// GetMatches returns the profiles the signed-in user matched with
func (c *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	matches, err := c.MatchService.ListMatches(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to fetch matches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// ReconcileMatches repairs matches of the signed-in user that are missing on the other side
func (c *MatchController) ReconcileMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	repaired, err := c.MatchService.ReconcileMatches(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to repair matches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"repaired": repaired,
	})
}
