package services

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/jagman11/match--royale/models"
	"go.uber.org/zap"
)

// UserProfileService reads and edits the profile of a user
type UserProfileService struct {
	Profiles ProfileStore
	Images   ImageUploader
	Validate *validator.Validate
	Log      *zap.SugaredLogger
}

// NewUserProfileService creates a UserProfileService
func NewUserProfileService(profiles ProfileStore, images ImageUploader, log *zap.SugaredLogger) *UserProfileService {
	return &UserProfileService{
		Profiles: profiles,
		Images:   images,
		Validate: validator.New(),
		Log:      log,
	}
}

// SaveProfile validates and stores the editable attributes of userID's profile.
// The stored matched set is never overwritten from client input.
func (ups *UserProfileService) SaveProfile(ctx context.Context, userID string, profile models.UserProfile) (*models.UserProfile, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	profile.UserID = userID
	if err := ups.Validate.Struct(profile); err != nil {
		return nil, err
	}

	if err := ups.Profiles.PutProfile(ctx, profile); err != nil {
		ups.Log.Errorf("❌ Failed to save profile %s: %v", userID, err)
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	ups.Log.Infof("✅ Profile %s saved", userID)
	return ups.GetProfile(ctx, userID)
}

// GetProfile retrieves a user profile by ID
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := ups.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.MatchedUsers == nil {
		profile.MatchedUsers = []string{}
	}
	return profile, nil
}

// SetImage uploads an image and points the profile's image or background at it.
// The profile must exist before anything is uploaded.
func (ups *UserProfileService) SetImage(ctx context.Context, userID, kind string, body io.Reader) (*models.UserProfile, error) {
	profile, err := ups.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := ups.Images.UploadImage(ctx, userID, kind, body)
	if err != nil {
		return nil, err
	}

	switch kind {
	case models.ImageKindProfile:
		profile.Image = url
	case models.ImageKindBackground:
		profile.BackgroundImage = url
	}
	if err := ups.Profiles.PutProfile(ctx, *profile); err != nil {
		ups.Log.Errorf("❌ Uploaded %s image for %s but failed to save profile: %v", kind, userID, err)
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	ups.Log.Infof("✅ %s image of %s set to %s", kind, userID, url)
	return profile, nil
}
