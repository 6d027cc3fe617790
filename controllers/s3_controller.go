package controllers

import (
	"net/http"

	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// S3Controller hands out presigned URLs for profile images
type S3Controller struct {
	Images *services.S3Service
	Log    *zap.SugaredLogger
}

// NewS3Controller creates a new instance of S3Controller
func NewS3Controller(images *services.S3Service, log *zap.SugaredLogger) *S3Controller {
	return &S3Controller{Images: images, Log: log}
}

// GeneratePresignedURL generates a presigned URL for uploading the signed-in user's image
func (c *S3Controller) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		Kind     string `json:"kind" validate:"required,oneof=profile background"`
		FileType string `json:"fileType" validate:"required"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	url, key, err := c.Images.UploadURL(r.Context(), userID, payload.Kind, payload.FileType)
	if err != nil {
		respondError(w, c.Log, err, "Failed to generate pre-signed URL")
		return
	}
	c.Log.Debugf("✅ Generated upload URL for %s", key)
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// GetPresignedReadURL generates a presigned URL for reading an image
func (c *S3Controller) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key" validate:"required"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	url, err := c.Images.ReadURL(r.Context(), payload.Key)
	if err != nil {
		respondError(w, c.Log, err, "Failed to generate read pre-signed URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
