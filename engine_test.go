package funds_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/funds"
	"github.com/xraph/funds/balance"
	"github.com/xraph/funds/fund"
	"github.com/xraph/funds/id"
	"github.com/xraph/funds/notification"
	"github.com/xraph/funds/store/memory"
	"github.com/xraph/funds/transaction"
	"github.com/xraph/funds/types"
)

// testClock hands out strictly increasing timestamps so ledger records
// created in the same test never share a created_at.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func newEngine(t *testing.T, opts ...funds.Option) (*funds.Engine, *memory.Store) {
	t.Helper()

	s := memory.New()
	opts = append([]funds.Option{funds.WithClock(newTestClock().Now)}, opts...)
	return funds.New(s, opts...), s
}

func seedFund(t *testing.T, e *funds.Engine, name string, minimum int64) *fund.Fund {
	t.Helper()

	f := &fund.Fund{
		Name:          name,
		MinimumAmount: types.COP(minimum),
		Category:      fund.CategoryFPV,
		Active:        true,
	}
	if err := e.CreateFund(context.Background(), f); err != nil {
		t.Fatalf("create fund %s: %v", name, err)
	}
	return f
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "FPV_EL CLIENTE_ECOPETROL", 125000)

		res, err := e.Subscribe(ctx, "user_1", f.ID)
		if err != nil {
			t.Fatal(err)
		}

		if res.Transaction.Status != transaction.StatusCompleted {
			t.Errorf("transaction status: got %s", res.Transaction.Status)
		}
		if res.Transaction.Type != transaction.TypeSubscription {
			t.Errorf("transaction type: got %s", res.Transaction.Type)
		}
		if !res.Transaction.Amount.Equal(types.COP(125000)) {
			t.Errorf("transaction amount: got %s", res.Transaction.Amount.StringAmount())
		}
		if !res.NewBalance.Equal(types.COP(375000)) {
			t.Errorf("new balance: got %s, want 375000", res.NewBalance.StringAmount())
		}
		if !res.Subscription.Active {
			t.Error("registry record must be active")
		}
		if res.Message == "" {
			t.Error("result must carry a confirmation message")
		}
	})

	t.Run("BalanceCreatedOnFirstAccess", func(t *testing.T) {
		e, _ := newEngine(t)

		b, err := e.Balance(ctx, "fresh_user")
		if err != nil {
			t.Fatal(err)
		}
		if !b.Available.Equal(types.COP(500000)) {
			t.Errorf("default balance: got %s", b.Available.StringAmount())
		}

		// Second read returns the same record, not a fresh default.
		again, err := e.Balance(ctx, "fresh_user")
		if err != nil {
			t.Fatal(err)
		}
		if !again.CreatedAt.Equal(b.CreatedAt) {
			t.Error("balance must be created once")
		}
	})

	t.Run("FundNotFound", func(t *testing.T) {
		e, _ := newEngine(t)

		_, err := e.Subscribe(ctx, "user_1", id.NewFundID())
		if !errors.Is(err, funds.ErrFundNotFound) {
			t.Errorf("expected ErrFundNotFound, got %v", err)
		}
		if !funds.IsNotFound(err) {
			t.Error("IsNotFound must classify ErrFundNotFound")
		}
	})

	t.Run("FundInactive", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "DEUDAPRIVADA", 50000)
		if err := e.SetFundActive(ctx, f.ID, false); err != nil {
			t.Fatal(err)
		}

		_, err := e.Subscribe(ctx, "user_1", f.ID)
		if !errors.Is(err, funds.ErrFundInactive) {
			t.Errorf("expected ErrFundInactive, got %v", err)
		}

		// No ledger record for a rejected request.
		history, err := e.History(ctx, "user_1", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d records", len(history))
		}
	})

	t.Run("AlreadySubscribed", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "FDO-ACCIONES", 250000)

		if _, err := e.Subscribe(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		_, err := e.Subscribe(ctx, "user_1", f.ID)
		if !errors.Is(err, funds.ErrAlreadySubscribed) {
			t.Errorf("expected ErrAlreadySubscribed, got %v", err)
		}
		if !funds.IsValidation(err) {
			t.Error("IsValidation must classify ErrAlreadySubscribed")
		}

		// Balance debited exactly once.
		b, err := e.Balance(ctx, "user_1")
		if err != nil {
			t.Fatal(err)
		}
		if !b.Available.Equal(types.COP(250000)) {
			t.Errorf("balance: got %s, want 250000", b.Available.StringAmount())
		}
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		e, _ := newEngine(t, funds.WithDefaultBalance(types.COP(100000)))
		f := seedFund(t, e, "FPV_EL CLIENTE_ECOPETROL", 125000)

		_, err := e.Subscribe(ctx, "user_1", f.ID)
		if !errors.Is(err, funds.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}

		var detail funds.InsufficientBalanceError
		if !errors.As(err, &detail) {
			t.Fatal("expected InsufficientBalanceError detail")
		}

		// Balance untouched, no ledger record.
		b, err := e.Balance(ctx, "user_1")
		if err != nil {
			t.Fatal(err)
		}
		if !b.Available.Equal(types.COP(100000)) {
			t.Errorf("balance: got %s", b.Available.StringAmount())
		}
		history, _ := e.History(ctx, "user_1", 0)
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d records", len(history))
		}
	})

	t.Run("OneCentavoShort", func(t *testing.T) {
		e, _ := newEngine(t, funds.WithDefaultBalance(types.MustParse("124999.99", "cop")))
		f := seedFund(t, e, "FPV_EL CLIENTE_ECOPETROL", 125000)

		_, err := e.Subscribe(ctx, "user_1", f.ID)
		if !errors.Is(err, funds.ErrInsufficientBalance) {
			t.Errorf("expected ErrInsufficientBalance, got %v", err)
		}
	})

	t.Run("ExactMinimumAllowed", func(t *testing.T) {
		e, _ := newEngine(t, funds.WithDefaultBalance(types.COP(125000)))
		f := seedFund(t, e, "FPV_EL CLIENTE_ECOPETROL", 125000)

		res, err := e.Subscribe(ctx, "user_1", f.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !res.NewBalance.IsZero() {
			t.Errorf("balance should reach zero, got %s", res.NewBalance.StringAmount())
		}
	})

	t.Run("EmptyUserID", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "DEUDAPRIVADA", 50000)

		_, err := e.Subscribe(ctx, "", f.ID)
		if !funds.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessRefundsOriginalAmount", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "FPV_EL CLIENTE_ECOPETROL", 125000)

		if _, err := e.Subscribe(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		res, err := e.Cancel(ctx, "user_1", f.ID)
		if err != nil {
			t.Fatal(err)
		}

		if res.Transaction.Type != transaction.TypeCancellation {
			t.Errorf("transaction type: got %s", res.Transaction.Type)
		}
		if !res.Refunded.Equal(types.COP(125000)) {
			t.Errorf("refunded: got %s", res.Refunded.StringAmount())
		}
		if !res.NewBalance.Equal(types.COP(500000)) {
			t.Errorf("balance after refund: got %s, want 500000", res.NewBalance.StringAmount())
		}

		positions, err := e.ActivePositions(ctx, "user_1")
		if err != nil {
			t.Fatal(err)
		}
		if len(positions) != 0 {
			t.Errorf("expected no active positions, got %d", len(positions))
		}
	})

	t.Run("RefundSurvivesMinimumChange", func(t *testing.T) {
		e, s := newEngine(t)
		f := seedFund(t, e, "FPV_EL CLIENTE_ECOPETROL", 125000)

		if _, err := e.Subscribe(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}

		// Raise the fund's minimum after subscribing. The refund must be
		// the amount actually debited, not the current minimum.
		stored, err := s.GetFund(ctx, f.ID)
		if err != nil {
			t.Fatal(err)
		}
		stored.MinimumAmount = types.COP(999999)

		res, err := e.Cancel(ctx, "user_1", f.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Refunded.Equal(types.COP(125000)) {
			t.Errorf("refunded: got %s, want the original 125000", res.Refunded.StringAmount())
		}
	})

	t.Run("NoActiveSubscription", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "DEUDAPRIVADA", 50000)

		_, err := e.Cancel(ctx, "user_1", f.ID)
		if !errors.Is(err, funds.ErrNoActiveSubscription) {
			t.Errorf("expected ErrNoActiveSubscription, got %v", err)
		}
	})

	t.Run("DoubleCancelRejected", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "DEUDAPRIVADA", 50000)

		if _, err := e.Subscribe(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Cancel(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		_, err := e.Cancel(ctx, "user_1", f.ID)
		if !errors.Is(err, funds.ErrNoActiveSubscription) {
			t.Errorf("expected ErrNoActiveSubscription on second cancel, got %v", err)
		}
	})

	t.Run("WorksOnClosedFund", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "FDO-ACCIONES", 250000)

		if _, err := e.Subscribe(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		if err := e.SetFundActive(ctx, f.ID, false); err != nil {
			t.Fatal(err)
		}

		if _, err := e.Cancel(ctx, "user_1", f.ID); err != nil {
			t.Errorf("cancel on closed fund must work: %v", err)
		}
	})

	t.Run("ResubscribeAfterCancel", func(t *testing.T) {
		e, _ := newEngine(t)
		f := seedFund(t, e, "FPV_EL CLIENTE_DINAMICA", 100000)

		if _, err := e.Subscribe(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Cancel(ctx, "user_1", f.ID); err != nil {
			t.Fatal(err)
		}
		res, err := e.Subscribe(ctx, "user_1", f.ID)
		if err != nil {
			t.Fatalf("resubscribe after cancel: %v", err)
		}
		if !res.Subscription.Active {
			t.Error("reactivated registry record must be active")
		}
		if !res.NewBalance.Equal(types.COP(400000)) {
			t.Errorf("balance: got %s, want 400000", res.NewBalance.StringAmount())
		}
	})
}

// flakyStore wraps the memory store and injects balance write failures.
type flakyStore struct {
	*memory.Store
	mu       sync.Mutex
	failPuts bool
}

func (s *flakyStore) setFailPuts(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = fail
}

func (s *flakyStore) PutBalance(ctx context.Context, b *balance.Balance) error {
	s.mu.Lock()
	fail := s.failPuts
	s.mu.Unlock()
	if fail {
		return errors.New("simulated storage outage")
	}
	return s.Store.PutBalance(ctx, b)
}

func TestBalanceWriteFailure(t *testing.T) {
	ctx := context.Background()

	s := &flakyStore{Store: memory.New()}
	e := funds.New(s, funds.WithClock(newTestClock().Now))
	f := seedFund(t, e, "FPV_EL CLIENTE_RECAUDADORA", 75000)

	// Create the balance while the store is healthy.
	if _, err := e.Balance(ctx, "user_1"); err != nil {
		t.Fatal(err)
	}

	s.setFailPuts(true)
	_, err := e.Subscribe(ctx, "user_1", f.ID)
	if !errors.Is(err, funds.ErrBalanceUpdateFailed) {
		t.Fatalf("expected ErrBalanceUpdateFailed, got %v", err)
	}
	if !funds.IsRetryable(err) {
		t.Error("IsRetryable must classify ErrBalanceUpdateFailed")
	}
	s.setFailPuts(false)

	// The attempt left a FAILED ledger record and no balance change.
	history, err := e.History(ctx, "user_1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one ledger record, got %d", len(history))
	}
	if history[0].Status != transaction.StatusFailed {
		t.Errorf("status: got %s, want FAILED", history[0].Status)
	}

	b, err := e.Balance(ctx, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if !b.Available.Equal(types.COP(500000)) {
		t.Errorf("balance must be unchanged, got %s", b.Available.StringAmount())
	}

	// A FAILED subscription never opens a position.
	if _, err := e.Cancel(ctx, "user_1", f.ID); !errors.Is(err, funds.ErrNoActiveSubscription) {
		t.Errorf("expected ErrNoActiveSubscription, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	fa := seedFund(t, e, "DEUDAPRIVADA", 50000)
	fb := seedFund(t, e, "FPV_EL CLIENTE_RECAUDADORA", 75000)

	if _, err := e.Subscribe(ctx, "user_1", fa.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Subscribe(ctx, "user_1", fb.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Cancel(ctx, "user_1", fa.ID); err != nil {
		t.Fatal(err)
	}

	history, err := e.History(ctx, "user_1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.After(history[i-1].CreatedAt) {
			t.Fatal("history must be ordered newest first")
		}
	}
	if history[0].Type != transaction.TypeCancellation {
		t.Errorf("newest record should be the cancellation, got %s", history[0].Type)
	}
	if history[0].FundName != fa.Name {
		t.Errorf("fund name: got %q, want %q", history[0].FundName, fa.Name)
	}

	limited, err := e.History(ctx, "user_1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d records", len(limited))
	}

	// Histories are per user.
	other, err := e.History(ctx, "user_2", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty history for other user, got %d", len(other))
	}
}

func TestSeedFunds(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	seeded, err := e.SeedFunds(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if seeded != 5 {
		t.Errorf("seeded: got %d, want 5", seeded)
	}

	// Idempotent on the second run.
	seeded, err = e.SeedFunds(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if seeded != 0 {
		t.Errorf("second seed: got %d, want 0", seeded)
	}

	active, err := e.ActiveFunds(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 5 {
		t.Fatalf("active funds: got %d", len(active))
	}

	minimums := map[string]int64{
		"FPV_EL CLIENTE_RECAUDADORA": 75000,
		"FPV_EL CLIENTE_ECOPETROL":   125000,
		"DEUDAPRIVADA":               50000,
		"FDO-ACCIONES":               250000,
		"FPV_EL CLIENTE_DINAMICA":    100000,
	}
	for _, f := range active {
		want, ok := minimums[f.Name]
		if !ok {
			t.Errorf("unexpected fund %q", f.Name)
			continue
		}
		if !f.MinimumAmount.Equal(types.COP(want)) {
			t.Errorf("%s minimum: got %s, want %d", f.Name, f.MinimumAmount.StringAmount(), want)
		}
	}
}

func TestNotificationPreferences(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	t.Run("DefaultsToEmail", func(t *testing.T) {
		c, err := e.NotificationPreference(ctx, "user_1")
		if err != nil {
			t.Fatal(err)
		}
		if c != notification.ChannelEmail {
			t.Errorf("default channel: got %s", c)
		}
	})

	t.Run("SetAndGet", func(t *testing.T) {
		if err := e.SetNotificationPreference(ctx, "user_1", "sms"); err != nil {
			t.Fatal(err)
		}
		c, err := e.NotificationPreference(ctx, "user_1")
		if err != nil {
			t.Fatal(err)
		}
		if c != notification.ChannelSMS {
			t.Errorf("channel: got %s", c)
		}
	})

	t.Run("InvalidChannel", func(t *testing.T) {
		err := e.SetNotificationPreference(ctx, "user_1", "pigeon")
		if !errors.Is(err, notification.ErrInvalidChannel) {
			t.Errorf("expected ErrInvalidChannel, got %v", err)
		}
	})
}

// recordingNotifier captures dispatched messages.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *recordingNotifier) messages() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Message, len(n.msgs))
	copy(out, n.msgs)
	return out
}

func TestNotificationDispatch(t *testing.T) {
	ctx := context.Background()

	notifier := &recordingNotifier{}
	e, _ := newEngine(t, funds.WithNotifier(notifier))
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	f := seedFund(t, e, "FPV_EL CLIENTE_DINAMICA", 100000)
	if err := e.SetNotificationPreference(ctx, "user_1", "sms"); err != nil {
		t.Fatal(err)
	}

	res, err := e.Subscribe(ctx, "user_1", f.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Stop drains the queue before the worker exits.
	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}

	msgs := notifier.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.Channel != notification.ChannelSMS {
		t.Errorf("channel: got %s, want sms", msg.Channel)
	}
	if msg.Kind != "subscription" {
		t.Errorf("kind: got %s", msg.Kind)
	}
	if msg.FundName != f.Name {
		t.Errorf("fund name: got %s", msg.FundName)
	}
	if msg.TransactionID.String() != res.Transaction.ID.String() {
		t.Error("message must reference the completed transaction")
	}

	// The delivery outcome lands on the stored ledger record.
	stored, err := e.Transaction(ctx, res.Transaction.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.NotificationSent {
		t.Error("stored transaction must record notification_sent")
	}

	// The worker owns a private copy: the record handed back by
	// Subscribe is never written after the workflow returns.
	if res.Transaction.NotificationSent {
		t.Error("caller's transaction instance must not be mutated by the worker")
	}
}

// failingNotifier rejects every delivery attempt.
type failingNotifier struct{}

func (failingNotifier) Send(_ context.Context, _ notification.Message) error {
	return errors.New("smtp unreachable")
}

func TestNotificationFailureRecorded(t *testing.T) {
	ctx := context.Background()

	e, _ := newEngine(t, funds.WithNotifier(failingNotifier{}))
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	f := seedFund(t, e, "DEUDAPRIVADA", 50000)
	res, err := e.Subscribe(ctx, "user_1", f.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}

	// A failed delivery leaves the flag unset and never touches the
	// money state.
	stored, err := e.Transaction(ctx, res.Transaction.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.NotificationSent {
		t.Error("failed delivery must not record notification_sent")
	}
	if stored.Status != transaction.StatusCompleted {
		t.Errorf("transaction status: got %s, want COMPLETED", stored.Status)
	}
}

func TestCallerRecordStableDuringDelivery(t *testing.T) {
	ctx := context.Background()

	gate := make(chan struct{})
	notifier := notification.NotifierFunc(func(_ context.Context, _ notification.Message) error {
		<-gate
		return nil
	})

	e, _ := newEngine(t, funds.WithNotifier(notifier))
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	f := seedFund(t, e, "FDO-ACCIONES", 250000)
	res, err := e.Subscribe(ctx, "user_1", f.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Read the caller's record continuously while the worker delivers
	// and records the outcome. Run with -race: the worker must only
	// ever write its own copy.
	stop := make(chan struct{})
	mutated := make(chan bool)
	go func() {
		saw := false
		for {
			select {
			case <-stop:
				mutated <- saw
				return
			default:
				if res.Transaction.NotificationSent {
					saw = true
				}
				time.Sleep(time.Millisecond)
			}
		}
	}()

	close(gate)
	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}
	close(stop)

	if <-mutated {
		t.Error("caller's transaction instance must not be mutated by the worker")
	}

	stored, err := e.Transaction(ctx, res.Transaction.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.NotificationSent {
		t.Error("stored transaction must record notification_sent")
	}
}

func TestConcurrentSubscribes(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	funds5 := make([]*fund.Fund, 0, 5)
	names := []string{"A", "B", "C", "D", "E"}
	for _, n := range names {
		funds5 = append(funds5, seedFund(t, e, "FUND_"+n, 100000))
	}

	// Five concurrent 100000 debits against a 500000 balance must all
	// succeed and land the balance exactly at zero.
	var wg sync.WaitGroup
	errs := make([]error, len(funds5))
	for i, f := range funds5 {
		wg.Add(1)
		go func(i int, fundID id.FundID) {
			defer wg.Done()
			_, errs[i] = e.Subscribe(ctx, "user_1", fundID)
		}(i, f.ID)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("subscribe %d: %v", i, err)
		}
	}

	b, err := e.Balance(ctx, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if !b.Available.IsZero() {
		t.Errorf("balance: got %s, want 0", b.Available.StringAmount())
	}

	history, err := e.History(ctx, "user_1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 5 {
		t.Errorf("expected 5 ledger records, got %d", len(history))
	}
}
