package subscription

import (
	"testing"
	"time"

	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

func TestEligibilityOf(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fundID := id.NewFundID()

	t.Run("NoRecord", func(t *testing.T) {
		if got := EligibilityOf(nil); got != Allowed {
			t.Errorf("got %s, want allowed", got)
		}
	})

	t.Run("ActiveRecord", func(t *testing.T) {
		sub := New("user_1", fundID, types.COP(125000), types.COP(125000), now)
		if got := EligibilityOf(sub); got != Denied {
			t.Errorf("got %s, want denied", got)
		}
	})

	t.Run("CancelledRecord", func(t *testing.T) {
		sub := New("user_1", fundID, types.COP(125000), types.COP(125000), now)
		sub.Cancel(now.Add(time.Hour))
		if got := EligibilityOf(sub); got != AllowedReactivation {
			t.Errorf("got %s, want allowed_reactivation", got)
		}
	})
}

func TestSubscriptionLifecycle(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fundID := id.NewFundID()

	sub := New("user_1", fundID, types.COP(125000), types.COP(125000), start)
	if !sub.Active {
		t.Fatal("new subscription must be active")
	}
	if sub.CancelledAt != nil {
		t.Fatal("new subscription must not carry a cancellation stamp")
	}
	if !sub.SubscribedAt.Equal(start) {
		t.Errorf("SubscribedAt: got %v, want %v", sub.SubscribedAt, start)
	}

	cancelTime := start.Add(24 * time.Hour)
	sub.Cancel(cancelTime)
	if sub.Active {
		t.Error("cancelled subscription must be inactive")
	}
	if sub.CancelledAt == nil || !sub.CancelledAt.Equal(cancelTime) {
		t.Errorf("CancelledAt: got %v, want %v", sub.CancelledAt, cancelTime)
	}

	resubTime := cancelTime.Add(48 * time.Hour)
	sub.Reactivate(types.COP(250000), types.COP(250000), resubTime)
	if !sub.Active {
		t.Error("reactivated subscription must be active")
	}
	if sub.CancelledAt != nil {
		t.Error("reactivation must clear the cancellation stamp")
	}
	if !sub.SubscribedAt.Equal(resubTime) {
		t.Errorf("SubscribedAt: got %v, want %v", sub.SubscribedAt, resubTime)
	}
	if !sub.SubscriptionAmount.Equal(types.COP(250000)) {
		t.Errorf("SubscriptionAmount: got %s", sub.SubscriptionAmount.StringAmount())
	}
	if !sub.CreatedAt.Equal(start) {
		t.Error("reactivation must reuse the original record")
	}
}
