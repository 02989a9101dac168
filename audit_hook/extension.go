// Package audithook bridges funds engine lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not import
// an audit backend directly. Callers inject a RecorderFunc adapter that
// bridges to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/funds/plugin"
	"github.com/xraph/funds/transaction"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnFundSeeded           = (*Extension)(nil)
	_ plugin.OnSubscribed           = (*Extension)(nil)
	_ plugin.OnCancelled            = (*Extension)(nil)
	_ plugin.OnTransactionCompleted = (*Extension)(nil)
	_ plugin.OnTransactionFailed    = (*Extension)(nil)
	_ plugin.OnBalanceChanged       = (*Extension)(nil)
	_ plugin.OnNotificationSent     = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so this package does not depend on a concrete
// audit module — callers inject the backend at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges funds engine lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnFundSeeded implements plugin.OnFundSeeded.
func (e *Extension) OnFundSeeded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionFundSeeded, SeverityInfo, OutcomeSuccess,
		ResourceFund, "", CategoryCatalog, nil,
		"event", "fund_seeded",
	)
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscribed implements plugin.OnSubscribed.
func (e *Extension) OnSubscribed(ctx context.Context, _, txn interface{}) error {
	return e.record(ctx, ActionSubscribed, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, transactionID(txn), CategorySubscription, nil,
		"event", "subscription_opened",
	)
}

// OnCancelled implements plugin.OnCancelled.
func (e *Extension) OnCancelled(ctx context.Context, _, txn interface{}) error {
	return e.record(ctx, ActionCancelled, SeverityInfo, OutcomeSuccess,
		ResourceSubscription, transactionID(txn), CategorySubscription, nil,
		"event", "subscription_cancelled",
	)
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnTransactionCompleted implements plugin.OnTransactionCompleted.
func (e *Extension) OnTransactionCompleted(ctx context.Context, txn interface{}) error {
	kvPairs := []any{"event", "transaction_completed"}
	if t, ok := txn.(*transaction.Transaction); ok {
		kvPairs = append(kvPairs,
			"user_id", t.UserID,
			"type", string(t.Type),
			"amount", t.Amount.Display(),
		)
	}
	return e.record(ctx, ActionTransactionCompleted, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, transactionID(txn), CategoryMoney, nil,
		kvPairs...,
	)
}

// OnTransactionFailed implements plugin.OnTransactionFailed.
func (e *Extension) OnTransactionFailed(ctx context.Context, txn interface{}, cause error) error {
	kvPairs := []any{"event", "transaction_failed"}
	if t, ok := txn.(*transaction.Transaction); ok {
		kvPairs = append(kvPairs,
			"user_id", t.UserID,
			"type", string(t.Type),
		)
	}
	return e.record(ctx, ActionTransactionFailed, SeverityCritical, OutcomeFailure,
		ResourceTransaction, transactionID(txn), CategoryMoney, cause,
		kvPairs...,
	)
}

// ──────────────────────────────────────────────────
// Balance hooks
// ──────────────────────────────────────────────────

// OnBalanceChanged implements plugin.OnBalanceChanged.
func (e *Extension) OnBalanceChanged(ctx context.Context, userID string, _, _ interface{}) error {
	return e.record(ctx, ActionBalanceChanged, SeverityInfo, OutcomeSuccess,
		ResourceBalance, userID, CategoryMoney, nil,
		"user_id", userID,
	)
}

// ──────────────────────────────────────────────────
// Notification hooks
// ──────────────────────────────────────────────────

// OnNotificationSent implements plugin.OnNotificationSent.
func (e *Extension) OnNotificationSent(ctx context.Context, _ interface{}, sendErr error) error {
	if sendErr != nil {
		return e.record(ctx, ActionNotificationFailed, SeverityWarning, OutcomeFailure,
			ResourceNotification, "", CategoryDelivery, sendErr,
			"event", "notification_failed",
		)
	}
	return e.record(ctx, ActionNotificationSent, SeverityInfo, OutcomeSuccess,
		ResourceNotification, "", CategoryDelivery, nil,
		"event", "notification_sent",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// transactionID extracts the ID when the value is a ledger transaction.
func transactionID(txn interface{}) string {
	if t, ok := txn.(*transaction.Transaction); ok {
		return t.ID.String()
	}
	return ""
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
