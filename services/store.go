//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package services

import (
	"context"

	"github.com/jagman11/match--royale/models"
)

// ProfileStore is the keyed document store holding user profiles
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// GetProfiles resolves ids in order, skipping the ones that do not exist
	GetProfiles(ctx context.Context, userIDs []string) ([]models.UserProfile, error)
	// PutProfile upserts the editable attributes and leaves MatchedUsers untouched
	PutProfile(ctx context.Context, profile models.UserProfile) error
	ScanProfiles(ctx context.Context) ([]models.UserProfile, error)
	// AddMatchedUser adds matchedID to the matched set of userID
	AddMatchedUser(ctx context.Context, userID, matchedID string) error
}

// MessageStore is the append-only log backing chat channels
type MessageStore interface {
	AppendMessage(ctx context.Context, message models.Message) error
	// ListMessages returns the channel history ordered by SortKey
	ListMessages(ctx context.Context, channelID string) ([]models.Message, error)
}

// AccountStore keeps credentials keyed by email
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, email string) (*models.Account, error)
}
