package controllers

import (
	"net/http"

	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// AuthController handles sign-up and sign-in
type AuthController struct {
	AuthService *services.AuthService
	Log         *zap.SugaredLogger
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(authService *services.AuthService, log *zap.SugaredLogger) *AuthController {
	return &AuthController{AuthService: authService, Log: log}
}

// SignUp creates an account and returns a session token
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	session, err := c.AuthService.SignUp(r.Context(), creds)
	if err != nil {
		respondError(w, c.Log, err, "Failed to create account")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// SignIn exchanges credentials for a session token
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	session, err := c.AuthService.SignIn(r.Context(), creds)
	if err != nil {
		respondError(w, c.Log, err, "Failed to sign in")
		return
	}
	writeJSON(w, http.StatusOK, session)
}
