package models

// Swipe directions
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Image kinds stored per profile
const (
	ImageKindProfile    = "profile"
	ImageKindBackground = "background"
)

// Acknowledgments returned after a swipe decision
const (
	AcknowledgmentPositive = "positive"
	AcknowledgmentNegative = "negative"
)
