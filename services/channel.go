package services

import (
	"fmt"
	"sort"
	"strings"
)

// ChannelSeparator joins the two sorted participant ids of a channel
const ChannelSeparator = "_"

// ChannelID derives the order-independent id of the conversation between a and b
func ChannelID(a, b string) (string, error) {
	if err := validateParticipants(a, b); err != nil {
		return "", err
	}
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + ChannelSeparator + ids[1], nil
}

// ParseChannelID recovers the two participants of a channel id
func ParseChannelID(channelID string) (string, string, error) {
	a, b, ok := strings.Cut(channelID, ChannelSeparator)
	if !ok {
		return "", "", fmt.Errorf("malformed channel id %q: %w", channelID, ErrInvalidParticipants)
	}
	if err := validateParticipants(a, b); err != nil {
		return "", "", fmt.Errorf("malformed channel id %q: %w", channelID, err)
	}
	if a > b {
		return "", "", fmt.Errorf("channel id %q is not canonical: %w", channelID, ErrInvalidParticipants)
	}
	return a, b, nil
}

func validateParticipants(a, b string) error {
	if a == "" || b == "" || a == b {
		return ErrInvalidParticipants
	}
	if strings.Contains(a, ChannelSeparator) || strings.Contains(b, ChannelSeparator) {
		return fmt.Errorf("ids may not contain %q: %w", ChannelSeparator, ErrInvalidParticipants)
	}
	return nil
}
