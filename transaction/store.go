package transaction

import (
	"context"

	"github.com/xraph/funds/id"
)

// Store is the persistence interface for the transaction ledger.
// TransactionHistory is backed by a secondary index on
// (user_id, created_at) and returns records ordered by created_at
// descending.
type Store interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, txnID id.TransactionID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, t *Transaction) error
	TransactionHistory(ctx context.Context, userID string, limit int) ([]*Transaction, error)
}
