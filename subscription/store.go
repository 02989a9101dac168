package subscription

import (
	"context"

	"github.com/xraph/funds/id"
)

// Store is the persistence interface for the subscription registry.
// PutSubscription upserts on the (user_id, fund_id) composite key,
// preserving the at-most-one-record-per-pair invariant.
type Store interface {
	GetSubscription(ctx context.Context, userID string, fundID id.FundID) (*Subscription, error)
	PutSubscription(ctx context.Context, s *Subscription) error
	ListSubscriptions(ctx context.Context, userID string, opts ListOpts) ([]*Subscription, error)
}

// ListOpts filters registry listings.
type ListOpts struct {
	ActiveOnly bool
}
