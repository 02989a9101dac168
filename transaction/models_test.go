package transaction

import (
	"testing"
	"time"

	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

func TestStatusTransitions(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("PendingToCompleted", func(t *testing.T) {
		txn := New("user_1", id.NewFundID(), TypeSubscription, types.COP(125000), now)
		if txn.Status != StatusPending {
			t.Fatalf("new transaction status: got %s", txn.Status)
		}
		if err := txn.MarkCompleted(now.Add(time.Second)); err != nil {
			t.Fatal(err)
		}
		if txn.Status != StatusCompleted {
			t.Errorf("status: got %s", txn.Status)
		}
		if !txn.UpdatedAt.After(txn.CreatedAt) {
			t.Error("UpdatedAt should advance on transition")
		}
	})

	t.Run("PendingToFailed", func(t *testing.T) {
		txn := New("user_1", id.NewFundID(), TypeSubscription, types.COP(125000), now)
		if err := txn.MarkFailed(now); err != nil {
			t.Fatal(err)
		}
		if txn.Status != StatusFailed {
			t.Errorf("status: got %s", txn.Status)
		}
	})

	t.Run("TerminalIsFinal", func(t *testing.T) {
		txn := New("user_1", id.NewFundID(), TypeCancellation, types.COP(50000), now)
		if err := txn.MarkCompleted(now); err != nil {
			t.Fatal(err)
		}
		if err := txn.MarkFailed(now); err != ErrTerminal {
			t.Errorf("expected ErrTerminal, got %v", err)
		}
		if err := txn.MarkCompleted(now); err != ErrTerminal {
			t.Errorf("expected ErrTerminal, got %v", err)
		}
		if txn.Status != StatusCompleted {
			t.Errorf("terminal status must not change, got %s", txn.Status)
		}
	})
}

func TestLatestOpenSubscription(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fundA := id.NewFundID()
	fundB := id.NewFundID()

	mk := func(fundID id.FundID, typ Type, status Status, offset time.Duration) *Transaction {
		txn := New("user_1", fundID, typ, types.COP(125000), base.Add(offset))
		txn.Status = status
		return txn
	}

	// History is newest-first, matching the store contract.
	newestFirst := func(txns ...*Transaction) []*Transaction {
		out := make([]*Transaction, len(txns))
		for i, txn := range txns {
			out[len(txns)-1-i] = txn
		}
		return out
	}

	t.Run("NoHistory", func(t *testing.T) {
		if got := LatestOpenSubscription(nil, fundA); got != nil {
			t.Errorf("expected nil, got %v", got.ID)
		}
	})

	t.Run("OpenSubscriptionFound", func(t *testing.T) {
		sub := mk(fundA, TypeSubscription, StatusCompleted, 0)
		history := newestFirst(sub)
		if got := LatestOpenSubscription(history, fundA); got != sub {
			t.Error("expected the completed subscription")
		}
	})

	t.Run("CancelledSubscriptionSkipped", func(t *testing.T) {
		sub := mk(fundA, TypeSubscription, StatusCompleted, 0)
		cancel := mk(fundA, TypeCancellation, StatusCompleted, time.Minute)
		history := newestFirst(sub, cancel)
		if got := LatestOpenSubscription(history, fundA); got != nil {
			t.Errorf("cancelled position should not be open, got %v", got.ID)
		}
	})

	t.Run("ResubscribeAfterCancel", func(t *testing.T) {
		first := mk(fundA, TypeSubscription, StatusCompleted, 0)
		cancel := mk(fundA, TypeCancellation, StatusCompleted, time.Minute)
		second := mk(fundA, TypeSubscription, StatusCompleted, 2*time.Minute)
		history := newestFirst(first, cancel, second)
		if got := LatestOpenSubscription(history, fundA); got != second {
			t.Error("expected the resubscription to be open")
		}
	})

	t.Run("OtherFundCancellationIgnored", func(t *testing.T) {
		sub := mk(fundA, TypeSubscription, StatusCompleted, 0)
		otherCancel := mk(fundB, TypeCancellation, StatusCompleted, time.Minute)
		history := newestFirst(sub, otherCancel)
		if got := LatestOpenSubscription(history, fundA); got != sub {
			t.Error("cancellation of another fund must not close this position")
		}
	})

	t.Run("PendingAndFailedIgnored", func(t *testing.T) {
		pending := mk(fundA, TypeSubscription, StatusPending, 0)
		failed := mk(fundA, TypeSubscription, StatusFailed, time.Minute)
		history := newestFirst(pending, failed)
		if got := LatestOpenSubscription(history, fundA); got != nil {
			t.Errorf("non-completed subscriptions are not open, got %v", got.ID)
		}
	})

	t.Run("EarlierCancellationDoesNotClose", func(t *testing.T) {
		// A cancellation that predates the subscription belongs to a
		// previous cycle and must not shadow the newer position.
		oldCancel := mk(fundA, TypeCancellation, StatusCompleted, 0)
		sub := mk(fundA, TypeSubscription, StatusCompleted, time.Minute)
		history := newestFirst(oldCancel, sub)
		if got := LatestOpenSubscription(history, fundA); got != sub {
			t.Error("expected the subscription to remain open")
		}
	})
}
