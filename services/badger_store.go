package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/jagman11/match--royale/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	profilePrefix = "profile:"
	accountPrefix = "account:"
)

// BadgerStore implements ProfileStore, MessageStore and AccountStore on an embedded badger database.
// Records are JSON encoded. Message keys are "msg:{len}:{channelId}:{sortKey}" so a prefix scan
// returns a channel in SortKey order.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger routes badger's internal logging through zap
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// OpenBadgerStore opens (or creates) a badger database under path
func OpenBadgerStore(path string, log *zap.SugaredLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{log}).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the database
func (bs *BadgerStore) Close() error {
	return bs.db.Close()
}

func channelPrefix(channelID string) []byte {
	return []byte(fmt.Sprintf("msg:%d:%s:", len(channelID), channelID))
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// GetProfile retrieves a user profile by ID
func (bs *BadgerStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := bs.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(profilePrefix+userID), &profile)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", userID, err)
	}
	return &profile, nil
}

// GetProfiles resolves ids in order, skipping missing ones
func (bs *BadgerStore) GetProfiles(_ context.Context, userIDs []string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := bs.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(userIDs) {
			var profile models.UserProfile
			err := getJSON(txn, []byte(profilePrefix+id), &profile)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			profiles = append(profiles, profile)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	return profiles, nil
}

// PutProfile upserts the editable attributes, keeping the stored MatchedUsers
func (bs *BadgerStore) PutProfile(_ context.Context, profile models.UserProfile) error {
	key := []byte(profilePrefix + profile.UserID)
	err := bs.db.Update(func(txn *badger.Txn) error {
		var stored models.UserProfile
		err := getJSON(txn, key, &stored)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		profile.MatchedUsers = stored.MatchedUsers
		return setJSON(txn, key, profile)
	})
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.UserID, err)
	}
	return nil
}

// ScanProfiles reads every stored profile
func (bs *BadgerStore) ScanProfiles(_ context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var profile models.UserProfile
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &profile)
			}); err != nil {
				return err
			}
			profiles = append(profiles, profile)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	return profiles, nil
}

// AddMatchedUser adds matchedID to the matched set of userID.
// A concurrent writer makes the commit fail with badger.ErrConflict, which callers retry.
func (bs *BadgerStore) AddMatchedUser(_ context.Context, userID, matchedID string) error {
	key := []byte(profilePrefix + userID)
	err := bs.db.Update(func(txn *badger.Txn) error {
		var profile models.UserProfile
		if err := getJSON(txn, key, &profile); err != nil {
			return err
		}
		if profile.HasMatch(matchedID) {
			return nil
		}
		profile.MatchedUsers = append(profile.MatchedUsers, matchedID)
		return setJSON(txn, key, profile)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to add %s to matchedUsers of %s: %w", matchedID, userID, err)
	}
	return nil
}

// AppendMessage persists a message under its channel prefix
func (bs *BadgerStore) AppendMessage(_ context.Context, message models.Message) error {
	key := append(channelPrefix(message.ChannelID), message.SortKey...)
	err := bs.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, key, message)
	})
	if err != nil {
		return fmt.Errorf("failed to store message %s: %w", message.MessageID, err)
	}
	return nil
}

// ListMessages returns the channel history, oldest first
func (bs *BadgerStore) ListMessages(_ context.Context, channelID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = channelPrefix(channelID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var message models.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			}); err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages of %s: %w", channelID, err)
	}
	return messages, nil
}

// CreateAccount inserts an account unless the email is already registered
func (bs *BadgerStore) CreateAccount(_ context.Context, account models.Account) error {
	key := []byte(accountPrefix + account.Email)
	err := bs.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, key, account)
	})
	if errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("%s: %w", account.Email, ErrEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", account.Email, err)
	}
	return nil
}

// GetAccount retrieves an account by email
func (bs *BadgerStore) GetAccount(_ context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := bs.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(accountPrefix+email), &account)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", email, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", email, err)
	}
	return &account, nil
}
