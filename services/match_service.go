package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jagman11/match--royale/models"
	"go.uber.org/zap"
)

// MatchService records and resolves mutual matches between users
type MatchService struct {
	Profiles      ProfileStore
	Log           *zap.SugaredLogger
	MaxRetries    uint64        // retries per side after the first attempt
	RetryInterval time.Duration // initial backoff interval
}

// NewMatchService creates a MatchService with bounded retries on each side of a match write
func NewMatchService(profiles ProfileStore, log *zap.SugaredLogger, maxRetries uint64, retryInterval time.Duration) *MatchService {
	return &MatchService{
		Profiles:      profiles,
		Log:           log,
		MaxRetries:    maxRetries,
		RetryInterval: retryInterval,
	}
}

// PartialMatchError reports a match written for Recorded but not for Missing
type PartialMatchError struct {
	Recorded string
	Missing  string
	Err      error
}

func (e *PartialMatchError) Error() string {
	return fmt.Sprintf("match recorded for %s but not for %s: %v", e.Recorded, e.Missing, e.Err)
}

func (e *PartialMatchError) Unwrap() []error {
	return []error{ErrPartialMatch, e.Err}
}

func (ms *MatchService) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if ms.RetryInterval > 0 {
		exp.InitialInterval = ms.RetryInterval
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, ms.MaxRetries), ctx)
}

// addWithRetry writes one side of a match; a missing profile is not retried
func (ms *MatchService) addWithRetry(ctx context.Context, userID, matchedID string) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := ms.Profiles.AddMatchedUser(ctx, userID, matchedID)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrProfileNotFound) {
			return backoff.Permanent(err)
		}
		ms.Log.Warnf("⚠️ Attempt %d to add %s to matches of %s failed: %v", attempt, matchedID, userID, err)
		return err
	}, ms.backOff(ctx))
}

// RecordMatch adds b to a's matched set and a to b's. Both writes are set unions, so
// repeating the call changes nothing. b must have a profile before anything is written.
// When only a's side is written the returned error wraps ErrPartialMatch; ReconcileMatches
// repairs it later.
func (ms *MatchService) RecordMatch(ctx context.Context, a, b string) error {
	if a == "" || b == "" || a == b {
		return ErrInvalidParticipants
	}

	if _, err := ms.Profiles.GetProfile(ctx, b); err != nil {
		ms.Log.Warnf("⚠️ Refusing match %s -> %s: %v", a, b, err)
		return fmt.Errorf("failed to record match with %s: %w", b, err)
	}
	if err := ms.addWithRetry(ctx, a, b); err != nil {
		ms.Log.Errorf("❌ Failed to record match %s -> %s: %v", a, b, err)
		return fmt.Errorf("failed to record match for %s: %w", a, err)
	}
	if err := ms.addWithRetry(ctx, b, a); err != nil {
		ms.Log.Errorf("❌ Match %s <-> %s is asymmetric, %s side missing: %v", a, b, b, err)
		return &PartialMatchError{Recorded: a, Missing: b, Err: err}
	}

	ms.Log.Infof("✅ Match recorded between %s and %s", a, b)
	return nil
}

// ListMatches resolves the profiles of every matched user, skipping ids without a profile
func (ms *MatchService) ListMatches(ctx context.Context, userID string) ([]models.UserProfile, error) {
	profile, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches of %s: %w", userID, err)
	}
	if len(profile.MatchedUsers) == 0 {
		return []models.UserProfile{}, nil
	}

	ids := append([]string(nil), profile.MatchedUsers...)
	sort.Strings(ids)

	matches, err := ms.Profiles.GetProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve matches of %s: %w", userID, err)
	}
	if skipped := len(ids) - len(matches); skipped > 0 {
		ms.Log.Warnf("⚠️ Skipped %d unresolvable matches of %s", skipped, userID)
	}
	ms.Log.Debugf("🔍 Found %d matches for %s", len(matches), userID)
	if matches == nil {
		matches = []models.UserProfile{}
	}
	return matches, nil
}

// ReconcileMatches re-issues the counterpart write for every match of userID that is
// missing on the other side, returning the ids that were repaired
func (ms *MatchService) ReconcileMatches(ctx context.Context, userID string) ([]string, error) {
	profile, err := ms.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches of %s: %w", userID, err)
	}

	counterparts, err := ms.Profiles.GetProfiles(ctx, profile.MatchedUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve matches of %s: %w", userID, err)
	}

	repaired := []string{}
	for _, other := range counterparts {
		if other.HasMatch(userID) {
			continue
		}
		if err := ms.addWithRetry(ctx, other.UserID, userID); err != nil {
			return repaired, fmt.Errorf("failed to repair match %s -> %s: %w", other.UserID, userID, err)
		}
		ms.Log.Infof("✅ Repaired asymmetric match %s -> %s", other.UserID, userID)
		repaired = append(repaired, other.UserID)
	}
	return repaired, nil
}
