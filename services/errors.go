package services

import "errors"

var (
	ErrUnauthenticated     = errors.New("no signed-in user")
	ErrInvalidParticipants = errors.New("participants must be two distinct non-empty ids")
	ErrEmptyMessage        = errors.New("message text is empty")
	ErrNotParticipant      = errors.New("sender is not a participant of the channel")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPartialMatch        = errors.New("match recorded on one side only")
	ErrEmailTaken          = errors.New("email already registered")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNoCandidates        = errors.New("no candidates available")
	ErrCandidateMismatch   = errors.New("candidate is not the current card")
	ErrInvalidDirection    = errors.New("direction must be left or right")
	ErrInvalidFilter       = errors.New("invalid candidate filter")
	ErrUnsupportedImage    = errors.New("unsupported image content")
)
