package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jagman11/match--royale/models"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

const maxUploadBody = 12 << 20

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
	Log                *zap.SugaredLogger
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService, log *zap.SugaredLogger) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService, Log: log}
}

// GetMyProfile returns the profile of the signed-in user
func (c *UserProfileController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	profile, err := c.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SaveMyProfile replaces the editable attributes of the signed-in user's profile
func (c *UserProfileController) SaveMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var profile models.UserProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	saved, err := c.UserProfileService.SaveProfile(r.Context(), userID, profile)
	if err != nil {
		respondError(w, c.Log, err, "Failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile saved successfully",
		"profile": saved,
	})
}

// GetUserProfileByID handles fetching a user profile by ID
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UploadImage stores the multipart "file" as the profile or background image
func (c *UserProfileController) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = models.ImageKindProfile
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	profile, err := c.UserProfileService.SetImage(r.Context(), userID, kind, file)
	if err != nil {
		respondError(w, c.Log, err, "Failed to upload image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Image updated successfully",
		"profile": profile,
	})
}
