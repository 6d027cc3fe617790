package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jagman11/match--royale/middleware"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

var validate = validator.New()

// writeJSON writes v as the response body with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into v and validates its tags
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// validationMessage turns validator errors into a short client-facing message
func validationMessage(err error) string {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return "Invalid request payload"
	}
	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

// statusFor maps a service error onto a status and client message.
// Unknown errors are collaborator failures and get the caller's notice.
func statusFor(err error, notice string) (int, string) {
	var invalid validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.As(err, &invalid):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, services.ErrInvalidParticipants),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrInvalidDirection),
		errors.Is(err, services.ErrInvalidFilter),
		errors.Is(err, services.ErrUnsupportedImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrProfileNotFound):
		return http.StatusNotFound, "Profile not found"
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, services.ErrCandidateMismatch),
		errors.Is(err, services.ErrNoCandidates):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, notice
}

// respondError writes the mapped error and logs collaborator failures
func respondError(w http.ResponseWriter, log *zap.SugaredLogger, err error, notice string) {
	status, message := statusFor(err, notice)
	if status >= http.StatusInternalServerError {
		log.Errorf("❌ %s: %v", notice, err)
	} else {
		log.Debugf("⚠️ %d %s: %v", status, message, err)
	}
	writeError(w, status, message)
}

// currentUser returns the signed-in user id, writing 401 when there is none
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
	}
	return userID, ok
}
