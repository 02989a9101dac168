// Package subscription tracks a user's membership in a fund. It is a
// denormalized projection of the transaction ledger kept for fast
// lookups; the ledger remains the source of truth for cancellation
// eligibility.
package subscription

import (
	"time"

	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

// Subscription records a user's active or historical position in a fund.
// The (UserID, FundID) pair is the composite identity: there is at most
// one record per pair, and reactivation reuses the record instead of
// creating a second one.
type Subscription struct {
	types.Entity
	UserID             string      `json:"user_id"`
	FundID             id.FundID   `json:"fund_id"`
	Active             bool        `json:"active"`
	SubscribedAt       time.Time   `json:"subscribed_at"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	SubscriptionAmount types.Money `json:"subscription_amount"`
	InvestedAmount     types.Money `json:"invested_amount"`
}

// New creates an active subscription stamped with the given time.
func New(userID string, fundID id.FundID, amount, invested types.Money, now time.Time) *Subscription {
	return &Subscription{
		Entity:             types.NewEntityAt(now),
		UserID:             userID,
		FundID:             fundID,
		Active:             true,
		SubscribedAt:       now.UTC(),
		SubscriptionAmount: amount,
		InvestedAmount:     invested,
	}
}

// Reactivate flips a cancelled record back to active, clearing the
// cancellation stamp and refreshing the amounts and subscription time.
func (s *Subscription) Reactivate(amount, invested types.Money, now time.Time) {
	s.Active = true
	s.CancelledAt = nil
	s.SubscribedAt = now.UTC()
	s.SubscriptionAmount = amount
	s.InvestedAmount = invested
	s.TouchAt(now)
}

// Cancel marks the record inactive and stamps the cancellation time.
// Calling it on an already-inactive record just refreshes the stamps.
func (s *Subscription) Cancel(now time.Time) {
	s.Active = false
	cancelledAt := now.UTC()
	s.CancelledAt = &cancelledAt
	s.TouchAt(now)
}

// Eligibility is the tri-state outcome of a subscribe pre-check.
type Eligibility int

const (
	// Allowed: no prior record for the (user, fund) pair.
	Allowed Eligibility = iota
	// AllowedReactivation: a prior record exists but is inactive.
	AllowedReactivation
	// Denied: the pair already has an active subscription.
	Denied
)

// String returns a short label for logging.
func (e Eligibility) String() string {
	switch e {
	case Allowed:
		return "allowed"
	case AllowedReactivation:
		return "allowed_reactivation"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// EligibilityOf classifies an existing record (nil means no record).
func EligibilityOf(existing *Subscription) Eligibility {
	switch {
	case existing == nil:
		return Allowed
	case existing.Active:
		return Denied
	default:
		return AllowedReactivation
	}
}
