package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jagman11/match--royale/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DeckState is the position of a swipe deck in its lifecycle
type DeckState int

const (
	DeckLoading DeckState = iota
	DeckReady
	DeckSwipingLeft
	DeckSwipingRight
	DeckExhausted
)

func (s DeckState) String() string {
	switch s {
	case DeckLoading:
		return "loading"
	case DeckReady:
		return "ready"
	case DeckSwipingLeft:
		return "swiping-left"
	case DeckSwipingRight:
		return "swiping-right"
	case DeckExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("DeckState(%d)", int(s))
}

// Filters narrows the candidate set. Empty fields match everything.
type Filters struct {
	Gender models.Gender `json:"gender"`
	Major  string        `json:"major"`
}

// Validate rejects genders outside the supported set
func (f Filters) Validate() error {
	if f.Gender != "" && !f.Gender.Valid() {
		return fmt.Errorf("gender %q: %w", f.Gender, ErrInvalidFilter)
	}
	return nil
}

// FilterCandidates keeps the profiles of the given gender and major, preserving order.
// Gender must match exactly, major ignores case.
func FilterCandidates(profiles []models.UserProfile, f Filters) []models.UserProfile {
	major := strings.TrimSpace(f.Major)
	return lo.Filter(profiles, func(p models.UserProfile, _ int) bool {
		if f.Gender != "" && p.Gender != f.Gender {
			return false
		}
		if major != "" && !strings.EqualFold(p.Major, major) {
			return false
		}
		return true
	})
}

// CandidateSource supplies the full set of profiles a deck is built from
type CandidateSource interface {
	ScanProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// Matcher records a mutual match
type Matcher interface {
	RecordMatch(ctx context.Context, a, b string) error
}

// Decision is the outcome of one swipe
type Decision struct {
	Direction      string              `json:"direction"`
	Candidate      models.UserProfile  `json:"candidate"`
	Acknowledgment string              `json:"acknowledgment"`
	Matched        bool                `json:"matched"`
	Partial        bool                `json:"partial,omitempty"`
	Next           *models.UserProfile `json:"next"`
	Notice         string              `json:"notice,omitempty"`
}

// Deck presents candidates one at a time to a single user.
// All methods serialize on the deck; OnTransition runs under that lock and must not call back into the deck.
type Deck struct {
	UserID       string
	Source       CandidateSource
	Matcher      Matcher
	Log          *zap.SugaredLogger
	OnTransition func(from, to DeckState)

	mu      sync.Mutex
	state   DeckState
	loaded  bool
	filters Filters
	cards   []models.UserProfile
}

// NewDeck creates an unloaded deck for userID
func NewDeck(userID string, source CandidateSource, matcher Matcher, log *zap.SugaredLogger) *Deck {
	return &Deck{
		UserID:  userID,
		Source:  source,
		Matcher: matcher,
		Log:     log,
		state:   DeckLoading,
	}
}

func (d *Deck) transition(to DeckState) {
	from := d.state
	d.state = to
	if d.OnTransition != nil {
		d.OnTransition(from, to)
	}
}

// reload fetches and filters candidates; on failure the previous state and cards are kept
func (d *Deck) reload(ctx context.Context, filters Filters) error {
	previous := d.state
	d.transition(DeckLoading)

	profiles, err := d.Source.ScanProfiles(ctx)
	if err != nil {
		d.transition(previous)
		d.Log.Errorf("❌ Failed to load candidates for %s: %v", d.UserID, err)
		return fmt.Errorf("failed to load candidates: %w", err)
	}

	cards := FilterCandidates(profiles, filters)
	cards = lo.Reject(cards, func(p models.UserProfile, _ int) bool {
		return p.UserID == d.UserID
	})
	d.filters = filters
	d.cards = cards
	d.loaded = true

	d.Log.Debugf("🔍 Loaded %d candidates for %s", len(cards), d.UserID)
	if len(cards) == 0 {
		d.transition(DeckExhausted)
	} else {
		d.transition(DeckReady)
	}
	return nil
}

// Load fetches candidates with the current filters
func (d *Deck) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reload(ctx, d.filters)
}

// ensureLoaded builds the deck on first use and refills it whenever it is exhausted
func (d *Deck) ensureLoaded(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded && d.state != DeckExhausted {
		return nil
	}
	return d.reload(ctx, d.filters)
}

// SetFilters replaces the filters and rebuilds the deck once
func (d *Deck) SetFilters(ctx context.Context, filters Filters) error {
	if err := filters.Validate(); err != nil {
		return err
	}
	filters.Major = strings.TrimSpace(filters.Major)

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reload(ctx, filters)
}

// Filters returns the filters the deck was built with
func (d *Deck) Filters() Filters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filters
}

// State returns the current deck state
func (d *Deck) State() DeckState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Remaining returns the number of cards left
func (d *Deck) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

// Current returns the top card
func (d *Deck) Current() (*models.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DeckReady || len(d.cards) == 0 {
		return nil, ErrNoCandidates
	}
	top := d.cards[0]
	return &top, nil
}

// Decide applies a swipe on the top card. A right swipe records the match first and the card
// is consumed only once the match write is confirmed; a partial match counts as recorded.
// An exhausted deck is refilled with the current filters.
func (d *Deck) Decide(ctx context.Context, candidateID, direction string) (*Decision, error) {
	if direction != models.DirectionLeft && direction != models.DirectionRight {
		return nil, fmt.Errorf("%q: %w", direction, ErrInvalidDirection)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DeckReady || len(d.cards) == 0 {
		return nil, ErrNoCandidates
	}
	top := d.cards[0]
	if top.UserID != candidateID {
		return nil, fmt.Errorf("%s, current is %s: %w", candidateID, top.UserID, ErrCandidateMismatch)
	}

	decision := &Decision{Direction: direction, Candidate: top}
	if direction == models.DirectionRight {
		d.transition(DeckSwipingRight)
		err := d.Matcher.RecordMatch(ctx, d.UserID, top.UserID)
		if err != nil && !errors.Is(err, ErrPartialMatch) {
			d.transition(DeckReady)
			return nil, err
		}
		if err != nil {
			decision.Partial = true
			decision.Notice = err.Error()
		}
		decision.Matched = true
		decision.Acknowledgment = models.AcknowledgmentPositive
	} else {
		d.transition(DeckSwipingLeft)
		decision.Acknowledgment = models.AcknowledgmentNegative
	}

	d.cards = d.cards[1:]
	if len(d.cards) > 0 {
		d.transition(DeckReady)
	} else {
		d.transition(DeckExhausted)
		if err := d.reload(ctx, d.filters); err != nil {
			d.Log.Warnf("⚠️ Deck of %s exhausted and refill failed: %v", d.UserID, err)
			if decision.Notice == "" {
				decision.Notice = "no more candidates right now"
			}
		}
	}

	if len(d.cards) > 0 {
		next := d.cards[0]
		decision.Next = &next
	}
	return decision, nil
}

// SwipeService keeps one deck per signed-in user
type SwipeService struct {
	Source  CandidateSource
	Matcher Matcher
	Log     *zap.SugaredLogger

	mu    sync.Mutex
	decks map[string]*Deck
}

// NewSwipeService creates a SwipeService
func NewSwipeService(source CandidateSource, matcher Matcher, log *zap.SugaredLogger) *SwipeService {
	return &SwipeService{
		Source:  source,
		Matcher: matcher,
		Log:     log,
		decks:   make(map[string]*Deck),
	}
}

// Deck returns the deck of userID, creating and loading it on first use and refilling it once exhausted
func (ss *SwipeService) Deck(ctx context.Context, userID string) (*Deck, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	ss.mu.Lock()
	deck, ok := ss.decks[userID]
	if !ok {
		deck = NewDeck(userID, ss.Source, ss.Matcher, ss.Log)
		deck.OnTransition = func(from, to DeckState) {
			ss.Log.Debugf("🃏 Deck of %s: %s -> %s", userID, from, to)
		}
		ss.decks[userID] = deck
	}
	ss.mu.Unlock()

	if err := deck.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return deck, nil
}

// Close drops the deck of userID, reporting whether one existed
func (ss *SwipeService) Close(userID string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	_, ok := ss.decks[userID]
	delete(ss.decks, userID)
	return ok
}
