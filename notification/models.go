// Package notification defines delivery channels, per-user channel
// preferences, and the Notifier interface the engine dispatches through.
// Delivery is best-effort: a failed send never affects transaction or
// balance state.
package notification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/funds/types"
)

// Channel is a delivery medium for transaction notifications.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// DefaultChannel is used when a user has not stored a preference.
const DefaultChannel = ChannelEmail

// ErrInvalidChannel is returned by ParseChannel for unknown values.
var ErrInvalidChannel = errors.New("notification: invalid channel")

// Valid reports whether the channel is a known delivery medium.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// ParseChannel normalizes and validates a channel string.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, s)
	}
	return c, nil
}

// Preference stores a user's chosen delivery channel.
type Preference struct {
	types.Entity
	UserID  string  `json:"user_id"`
	Channel Channel `json:"channel"`
}
