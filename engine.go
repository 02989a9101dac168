package funds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/funds/balance"
	"github.com/xraph/funds/fund"
	"github.com/xraph/funds/id"
	"github.com/xraph/funds/notification"
	"github.com/xraph/funds/plugin"
	"github.com/xraph/funds/store"
	"github.com/xraph/funds/subscription"
	"github.com/xraph/funds/transaction"
	"github.com/xraph/funds/types"
)

// Engine is the fund subscription engine. It orchestrates the catalog,
// per-user balances, the transaction ledger, and the subscription
// registry, keeping balance mutations and ledger records consistent.
type Engine struct {
	store    store.Store
	plugins  *plugin.Registry
	logger   *slog.Logger
	notifier notification.Notifier
	clock    func() time.Time

	// Background notification dispatch
	notifyBuffer chan notifyJob
	stopChan     chan struct{}
	wg           sync.WaitGroup

	// Per-user write serialization. Subscribe and Cancel are
	// read-modify-write sequences over the balance; the keyed mutex
	// makes them atomic per user without blocking unrelated users.
	locksMu   sync.Mutex
	userLocks map[string]*sync.Mutex

	// Configuration
	defaultBalance   types.Money
	historyScanLimit int
}

// notifyJob carries a queued notification. txn is a private copy owned
// by the dispatch worker; the instance returned to callers is never
// touched after the workflow completes.
type notifyJob struct {
	msg notification.Message
	txn *transaction.Transaction
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:            s,
		plugins:          plugin.NewRegistry(),
		logger:           slog.Default(),
		clock:            time.Now,
		notifyBuffer:     make(chan notifyJob, 1000),
		stopChan:         make(chan struct{}),
		userLocks:        make(map[string]*sync.Mutex),
		defaultBalance:   types.COP(500000),
		historyScanLimit: 50,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.notifier == nil {
		e.notifier = notification.NewLogNotifier(e.logger)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithNotifier sets the notification delivery backend.
func WithNotifier(n notification.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithDefaultBalance sets the amount credited to a user's balance when
// it is created on first access.
func WithDefaultBalance(amount types.Money) Option {
	return func(e *Engine) {
		e.defaultBalance = amount
	}
}

// WithHistoryScanLimit sets how many recent ledger records a
// cancellation scans when looking for an open position.
func WithHistoryScanLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.historyScanLimit = limit
		}
	}
}

// WithNotifyBuffer sets the notification queue capacity.
func WithNotifyBuffer(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.notifyBuffer = make(chan notifyJob, size)
		}
	}
}

// Start migrates storage, initializes plugins, and begins the
// notification dispatch worker.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	e.plugins.EmitInit(ctx, e)

	e.wg.Add(1)
	go e.notifyWorker(ctx)

	e.logger.Info("funds engine started",
		"default_balance", e.defaultBalance.Display(),
		"history_scan_limit", e.historyScanLimit,
	)

	return nil
}

// Stop shuts down the Engine. Queued notifications are drained before
// the worker exits.
func (e *Engine) Stop() error {
	close(e.stopChan)
	e.wg.Wait()

	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	mu, ok := e.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.userLocks[userID] = mu
	}
	return mu
}

// ──────────────────────────────────────────────────
// Fund Catalog
// ──────────────────────────────────────────────────

// SeedFunds inserts the default catalog entries that are not already
// present, matching on name. Safe to call on every startup.
func (e *Engine) SeedFunds(ctx context.Context) (int, error) {
	existing, err := e.store.ListFunds(ctx, fund.ListOpts{})
	if err != nil {
		return 0, err
	}

	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f.Name] = true
	}

	seeded := 0
	for _, f := range fund.DefaultFunds(e.clock()) {
		if known[f.Name] {
			continue
		}
		if err := e.store.CreateFund(ctx, f); err != nil {
			return seeded, err
		}
		seeded++
		e.plugins.EmitFundSeeded(ctx, f)
		e.logger.Info("fund seeded",
			"fund_id", f.ID.String(),
			"name", f.Name,
			"minimum", f.MinimumAmount.Display(),
		)
	}
	return seeded, nil
}

// CreateFund adds a fund to the catalog.
func (e *Engine) CreateFund(ctx context.Context, f *fund.Fund) error {
	if f.Name == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !f.Category.Valid() {
		return ValidationError{Field: "category", Message: "unknown category"}
	}
	if !f.MinimumAmount.IsPositive() {
		return ValidationError{Field: "minimum_amount", Message: "must be positive"}
	}

	if f.ID.IsNil() {
		f.ID = id.NewFundID()
	}
	f.Entity = types.NewEntityAt(e.clock())

	return e.store.CreateFund(ctx, f)
}

// GetFund retrieves a fund by ID.
func (e *Engine) GetFund(ctx context.Context, fundID id.FundID) (*fund.Fund, error) {
	return e.store.GetFund(ctx, fundID)
}

// ActiveFunds lists the funds currently open for subscription.
func (e *Engine) ActiveFunds(ctx context.Context) ([]*fund.Fund, error) {
	return e.store.ListFunds(ctx, fund.ListOpts{ActiveOnly: true})
}

// ListFunds lists all catalog entries, active or not.
func (e *Engine) ListFunds(ctx context.Context) ([]*fund.Fund, error) {
	return e.store.ListFunds(ctx, fund.ListOpts{})
}

// SetFundActive opens or closes a fund for new subscriptions. Existing
// positions are unaffected; cancellation works on closed funds.
func (e *Engine) SetFundActive(ctx context.Context, fundID id.FundID, active bool) error {
	return e.store.SetFundActive(ctx, fundID, active)
}

// ──────────────────────────────────────────────────
// Balances
// ──────────────────────────────────────────────────

// Balance returns the user's balance, creating it with the default
// amount on first access.
func (e *Engine) Balance(ctx context.Context, userID string) (*balance.Balance, error) {
	if userID == "" {
		return nil, ValidationError{Field: "user_id", Message: "must not be empty"}
	}

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	return e.balanceLocked(ctx, userID)
}

// balanceLocked implements get-or-create. Callers must hold the user lock.
func (e *Engine) balanceLocked(ctx context.Context, userID string) (*balance.Balance, error) {
	b, err := e.store.GetBalance(ctx, userID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	b = &balance.Balance{
		Entity:    types.NewEntityAt(e.clock()),
		UserID:    userID,
		Available: e.defaultBalance,
	}
	if err := e.store.PutBalance(ctx, b); err != nil {
		return nil, err
	}

	e.logger.Info("balance created",
		"user_id", userID,
		"amount", b.Available.Display(),
	)
	return b, nil
}

// applyBalanceDelta mutates the user's balance by delta and persists it.
// Callers must hold the user lock and must have validated the debit.
func (e *Engine) applyBalanceDelta(ctx context.Context, b *balance.Balance, delta types.Money) error {
	old := *b

	b.Available = b.Available.Add(delta)
	if b.Available.IsNegative() {
		b.Available = old.Available
		return ErrNegativeBalanceGuard
	}
	b.TouchAt(e.clock())

	if err := e.store.PutBalance(ctx, b); err != nil {
		b.Available = old.Available
		return fmt.Errorf("%w: %w", ErrBalanceUpdateFailed, err)
	}

	e.plugins.EmitBalanceChanged(ctx, b.UserID, &old, b)
	return nil
}

// ──────────────────────────────────────────────────
// Subscribe
// ──────────────────────────────────────────────────

// SubscribeResult reports the outcome of a successful subscription.
type SubscribeResult struct {
	Transaction  *transaction.Transaction
	Subscription *subscription.Subscription
	NewBalance   types.Money
	Message      string
}

// Subscribe opens a position in a fund for the user, debiting the
// fund's minimum amount from their balance. The flow is: validate,
// record a PENDING ledger entry, mutate the balance, finalize the entry
// as COMPLETED or FAILED, then update the registry projection.
func (e *Engine) Subscribe(ctx context.Context, userID string, fundID id.FundID) (*SubscribeResult, error) {
	if userID == "" {
		return nil, ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if fundID.IsNil() {
		return nil, ValidationError{Field: "fund_id", Message: "must not be empty"}
	}

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	f, err := e.store.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	if !f.Active {
		return nil, fmt.Errorf("%w: %s", ErrFundInactive, f.Name)
	}

	existing, err := e.store.GetSubscription(ctx, userID, fundID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if subscription.EligibilityOf(existing) == subscription.Denied {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySubscribed, f.Name)
	}

	b, err := e.balanceLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b.Available.LessThan(f.MinimumAmount) {
		return nil, InsufficientBalanceError{
			Required:  f.MinimumAmount.Display(),
			Available: b.Available.Display(),
		}
	}

	// Validation passed: everything from here on leaves a ledger record.
	txn := transaction.New(userID, fundID, transaction.TypeSubscription, f.MinimumAmount, e.clock())
	if err := e.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	if err := e.applyBalanceDelta(ctx, b, f.MinimumAmount.Negate()); err != nil {
		e.finalizeFailed(ctx, txn, err)
		return nil, err
	}

	if err := txn.MarkCompleted(e.clock()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateTransaction(ctx, txn); err != nil {
		// The debit is already applied; the ledger record stays PENDING
		// and needs reconciliation. Surface the storage failure.
		e.logger.Error("failed to finalize transaction",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	sub := e.upsertSubscription(ctx, existing, userID, f, txn)

	e.plugins.EmitTransactionCompleted(ctx, txn)
	e.plugins.EmitSubscribed(ctx, sub, txn)
	e.enqueueNotification(ctx, txn, f, "subscription")

	e.logger.Info("subscription completed",
		"user_id", userID,
		"fund", f.Name,
		"transaction_id", txn.ID.String(),
		"amount", txn.Amount.Display(),
		"new_balance", b.Available.Display(),
	)

	return &SubscribeResult{
		Transaction:  txn,
		Subscription: sub,
		NewBalance:   b.Available,
		Message:      fmt.Sprintf("Subscribed to %s for %s", f.Name, txn.Amount.Display()),
	}, nil
}

// upsertSubscription refreshes the registry projection after a
// completed subscription. Registry failures are logged, not surfaced:
// the ledger already holds the truth.
func (e *Engine) upsertSubscription(ctx context.Context, existing *subscription.Subscription, userID string, f *fund.Fund, txn *transaction.Transaction) *subscription.Subscription {
	now := e.clock()

	var sub *subscription.Subscription
	if existing != nil {
		sub = existing
		sub.Reactivate(f.MinimumAmount, txn.Amount, now)
	} else {
		sub = subscription.New(userID, f.ID, f.MinimumAmount, txn.Amount, now)
	}

	if err := e.store.PutSubscription(ctx, sub); err != nil {
		e.logger.Error("failed to update subscription registry",
			"user_id", userID,
			"fund_id", f.ID.String(),
			"error", err,
		)
	}
	return sub
}

// ──────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────

// CancelResult reports the outcome of a successful cancellation.
type CancelResult struct {
	Transaction *transaction.Transaction
	Refunded    types.Money
	NewBalance  types.Money
	Message     string
}

// Cancel closes the user's open position in a fund and credits the
// original subscription amount back to their balance. The open position
// is derived from the ledger, not the registry: the most recent
// COMPLETED subscription with no later COMPLETED cancellation.
// Cancellation is allowed on funds that have since been closed.
func (e *Engine) Cancel(ctx context.Context, userID string, fundID id.FundID) (*CancelResult, error) {
	if userID == "" {
		return nil, ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if fundID.IsNil() {
		return nil, ValidationError{Field: "fund_id", Message: "must not be empty"}
	}

	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	f, err := e.store.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	history, err := e.store.TransactionHistory(ctx, userID, e.historyScanLimit)
	if err != nil {
		return nil, err
	}
	open := transaction.LatestOpenSubscription(history, fundID)
	if open == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoActiveSubscription, f.Name)
	}

	b, err := e.balanceLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	txn := transaction.New(userID, fundID, transaction.TypeCancellation, open.Amount, e.clock())
	if err := e.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	if err := e.applyBalanceDelta(ctx, b, open.Amount); err != nil {
		e.finalizeFailed(ctx, txn, err)
		return nil, err
	}

	if err := txn.MarkCompleted(e.clock()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateTransaction(ctx, txn); err != nil {
		e.logger.Error("failed to finalize transaction",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	e.closeSubscription(ctx, userID, fundID)

	e.plugins.EmitTransactionCompleted(ctx, txn)
	e.enqueueNotification(ctx, txn, f, "cancellation")

	e.logger.Info("cancellation completed",
		"user_id", userID,
		"fund", f.Name,
		"transaction_id", txn.ID.String(),
		"refunded", txn.Amount.Display(),
		"new_balance", b.Available.Display(),
	)

	return &CancelResult{
		Transaction: txn,
		Refunded:    txn.Amount,
		NewBalance:  b.Available,
		Message:     fmt.Sprintf("Cancelled subscription to %s, refunded %s", f.Name, txn.Amount.Display()),
	}, nil
}

// closeSubscription marks the registry record inactive. Best-effort:
// a missing or stale record does not fail the cancellation.
func (e *Engine) closeSubscription(ctx context.Context, userID string, fundID id.FundID) {
	sub, err := e.store.GetSubscription(ctx, userID, fundID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			e.logger.Error("failed to load subscription registry record",
				"user_id", userID,
				"fund_id", fundID.String(),
				"error", err,
			)
		}
		return
	}

	sub.Cancel(e.clock())
	if err := e.store.PutSubscription(ctx, sub); err != nil {
		e.logger.Error("failed to update subscription registry",
			"user_id", userID,
			"fund_id", fundID.String(),
			"error", err,
		)
		return
	}
	e.plugins.EmitCancelled(ctx, sub, nil)
}

// finalizeFailed marks a transaction FAILED after a balance mutation
// error and persists it best-effort.
func (e *Engine) finalizeFailed(ctx context.Context, txn *transaction.Transaction, cause error) {
	if err := txn.MarkFailed(e.clock()); err != nil {
		return
	}
	if err := e.store.UpdateTransaction(ctx, txn); err != nil {
		e.logger.Error("failed to record FAILED transaction",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
	}
	e.plugins.EmitTransactionFailed(ctx, txn, cause)

	e.logger.Warn("transaction failed",
		"transaction_id", txn.ID.String(),
		"type", string(txn.Type),
		"user_id", txn.UserID,
		"error", cause,
	)
}

// ──────────────────────────────────────────────────
// History and positions
// ──────────────────────────────────────────────────

// Entry is a ledger record enriched with the fund's display name.
type Entry struct {
	*transaction.Transaction
	FundName string `json:"fund_name"`
}

// History returns the user's ledger records, newest first, with fund
// names resolved. A limit of zero returns the full history. Records
// referencing a fund that no longer resolves keep a placeholder name.
func (e *Engine) History(ctx context.Context, userID string, limit int) ([]*Entry, error) {
	if userID == "" {
		return nil, ValidationError{Field: "user_id", Message: "must not be empty"}
	}

	txns, err := e.store.TransactionHistory(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	entries := make([]*Entry, 0, len(txns))
	for _, txn := range txns {
		key := txn.FundID.String()
		name, ok := names[key]
		if !ok {
			if f, err := e.store.GetFund(ctx, txn.FundID); err == nil {
				name = f.Name
			} else {
				name = "unknown fund"
			}
			names[key] = name
		}
		entries = append(entries, &Entry{Transaction: txn, FundName: name})
	}
	return entries, nil
}

// Transaction retrieves a single ledger record by ID.
func (e *Engine) Transaction(ctx context.Context, txnID id.TransactionID) (*transaction.Transaction, error) {
	return e.store.GetTransaction(ctx, txnID)
}

// ActivePositions lists the user's active subscriptions from the
// registry projection.
func (e *Engine) ActivePositions(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	if userID == "" {
		return nil, ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	return e.store.ListSubscriptions(ctx, userID, subscription.ListOpts{ActiveOnly: true})
}

// ──────────────────────────────────────────────────
// Notification preferences
// ──────────────────────────────────────────────────

// NotificationPreference returns the user's delivery channel, falling
// back to the default when none is stored.
func (e *Engine) NotificationPreference(ctx context.Context, userID string) (notification.Channel, error) {
	p, err := e.store.GetPreference(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notification.DefaultChannel, nil
		}
		return "", err
	}
	return p.Channel, nil
}

// SetNotificationPreference stores the user's delivery channel.
func (e *Engine) SetNotificationPreference(ctx context.Context, userID, channel string) error {
	if userID == "" {
		return ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	c, err := notification.ParseChannel(channel)
	if err != nil {
		return err
	}

	p, err := e.store.GetPreference(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		p = &notification.Preference{
			Entity: types.NewEntityAt(e.clock()),
			UserID: userID,
		}
	}
	p.Channel = c
	p.TouchAt(e.clock())

	return e.store.PutPreference(ctx, p)
}

// ──────────────────────────────────────────────────
// Notification dispatch
// ──────────────────────────────────────────────────

// enqueueNotification queues a message for background delivery.
// Best-effort: a full queue drops the message with a warning, never
// failing the transaction that triggered it.
func (e *Engine) enqueueNotification(ctx context.Context, txn *transaction.Transaction, f *fund.Fund, kind string) {
	channel, err := e.NotificationPreference(ctx, txn.UserID)
	if err != nil {
		e.logger.Warn("failed to load notification preference",
			"user_id", txn.UserID,
			"error", err,
		)
		channel = notification.DefaultChannel
	}

	txnCopy := *txn
	job := notifyJob{
		msg: notification.Message{
			UserID:        txn.UserID,
			Channel:       channel,
			TransactionID: txn.ID,
			FundName:      f.Name,
			Kind:          kind,
			Amount:        txn.Amount,
			OccurredAt:    txn.CreatedAt,
		},
		txn: &txnCopy,
	}

	select {
	case e.notifyBuffer <- job:
	default:
		e.logger.Warn("notification buffer full, dropping message",
			"user_id", txn.UserID,
			"transaction_id", txn.ID.String(),
		)
	}
}

// notifyWorker delivers queued notifications until Stop is called,
// then drains whatever remains in the queue.
func (e *Engine) notifyWorker(ctx context.Context) {
	defer e.wg.Done()

	for {
		select {
		case <-e.stopChan:
			for {
				select {
				case job := <-e.notifyBuffer:
					e.dispatch(ctx, job)
				default:
					return
				}
			}

		case job := <-e.notifyBuffer:
			e.dispatch(ctx, job)
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, job notifyJob) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := e.notifier.Send(sendCtx, job.msg)
	e.plugins.EmitNotificationSent(sendCtx, job.msg, err)

	if err != nil {
		e.logger.Warn("notification delivery failed",
			"user_id", job.msg.UserID,
			"channel", string(job.msg.Channel),
			"transaction_id", job.msg.TransactionID.String(),
			"error", err,
		)
		return
	}

	job.txn.NotificationSent = true
	if err := e.store.UpdateTransaction(sendCtx, job.txn); err != nil {
		e.logger.Warn("failed to record notification flag",
			"transaction_id", job.txn.ID.String(),
			"error", err,
		)
	}
}
