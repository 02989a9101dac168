// Package transaction defines the append-only ledger of balance-affecting
// attempts. Every balance mutation has exactly one corresponding
// Transaction; the ledger is the system's source of truth for
// subscription state.
package transaction

import (
	"errors"
	"time"

	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

// Type distinguishes the two balance-affecting operations.
type Type string

const (
	TypeSubscription Type = "SUBSCRIPTION"
	TypeCancellation Type = "CANCELLATION"
)

// Status is the lifecycle state of a transaction.
// The only transitions are PENDING → COMPLETED and PENDING → FAILED;
// both outcomes are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrTerminal is returned when attempting to transition a transaction
// that is already COMPLETED or FAILED.
var ErrTerminal = errors.New("transaction: status is terminal")

// Transaction is an immutable ledger record of a balance-affecting
// attempt. Once COMPLETED or FAILED it is never reopened.
type Transaction struct {
	types.Entity
	ID               id.TransactionID `json:"id"`
	UserID           string           `json:"user_id"`
	FundID           id.FundID        `json:"fund_id"`
	Type             Type             `json:"type"`
	Amount           types.Money      `json:"amount"`
	Status           Status           `json:"status"`
	NotificationSent bool             `json:"notification_sent"`
}

// New creates a PENDING transaction stamped with the given time.
func New(userID string, fundID id.FundID, typ Type, amount types.Money, now time.Time) *Transaction {
	return &Transaction{
		Entity: types.NewEntityAt(now),
		ID:     id.NewTransactionID(),
		UserID: userID,
		FundID: fundID,
		Type:   typ,
		Amount: amount,
		Status: StatusPending,
	}
}

// MarkCompleted moves the transaction to COMPLETED.
// Returns ErrTerminal if it already reached a terminal status.
func (t *Transaction) MarkCompleted(now time.Time) error {
	return t.transition(StatusCompleted, now)
}

// MarkFailed moves the transaction to FAILED.
// Returns ErrTerminal if it already reached a terminal status.
func (t *Transaction) MarkFailed(now time.Time) error {
	return t.transition(StatusFailed, now)
}

func (t *Transaction) transition(to Status, now time.Time) error {
	if t.Status.Terminal() {
		return ErrTerminal
	}
	t.Status = to
	t.TouchAt(now)
	return nil
}

// LatestOpenSubscription scans a user's transaction history — ordered
// newest first — for the most recent COMPLETED SUBSCRIPTION to the given
// fund that has no strictly later COMPLETED CANCELLATION for the same
// fund. It returns nil when the user holds no open position in the fund.
//
// The ledger scan, not the subscription registry, decides cancellation
// eligibility: the registry is a denormalized projection and may drift.
func LatestOpenSubscription(history []*Transaction, fundID id.FundID) *Transaction {
	for _, txn := range history {
		if txn.FundID.String() != fundID.String() ||
			txn.Type != TypeSubscription ||
			txn.Status != StatusCompleted {
			continue
		}

		cancelled := false
		for _, later := range history {
			if later.FundID.String() == fundID.String() &&
				later.Type == TypeCancellation &&
				later.Status == StatusCompleted &&
				later.CreatedAt.After(txn.CreatedAt) {
				cancelled = true
				break
			}
		}
		if !cancelled {
			return txn
		}
	}
	return nil
}
