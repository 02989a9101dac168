package balance

import "context"

// Store is the persistence interface for user balances.
// PutBalance is an unconditional upsert: there is no compare-and-swap at
// the storage level, so callers must serialize writers per user.
type Store interface {
	GetBalance(ctx context.Context, userID string) (*Balance, error)
	PutBalance(ctx context.Context, b *Balance) error
}
