// Package plugin provides an extensible plugin system for the funds engine.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

// OnFundSeeded is called for each fund inserted during catalog seeding.
type OnFundSeeded interface {
	Plugin
	OnFundSeeded(ctx context.Context, f interface{}) error
}

// ──────────────────────────────────────────────────
// Subscription lifecycle hooks
// ──────────────────────────────────────────────────

// OnSubscribed is called after a subscription completes successfully.
type OnSubscribed interface {
	Plugin
	OnSubscribed(ctx context.Context, sub interface{}, txn interface{}) error
}

// OnCancelled is called after a cancellation completes successfully.
type OnCancelled interface {
	Plugin
	OnCancelled(ctx context.Context, sub interface{}, txn interface{}) error
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnTransactionCompleted is called when a transaction reaches COMPLETED.
type OnTransactionCompleted interface {
	Plugin
	OnTransactionCompleted(ctx context.Context, txn interface{}) error
}

// OnTransactionFailed is called when a transaction reaches FAILED.
type OnTransactionFailed interface {
	Plugin
	OnTransactionFailed(ctx context.Context, txn interface{}, cause error) error
}

// ──────────────────────────────────────────────────
// Balance hooks
// ──────────────────────────────────────────────────

// OnBalanceChanged is called after a balance mutation is persisted.
// Old and new are *balance.Balance values.
type OnBalanceChanged interface {
	Plugin
	OnBalanceChanged(ctx context.Context, userID string, old, new interface{}) error
}

// ──────────────────────────────────────────────────
// Notification hooks
// ──────────────────────────────────────────────────

// OnNotificationSent is called after a notification dispatch attempt,
// successful or not.
type OnNotificationSent interface {
	Plugin
	OnNotificationSent(ctx context.Context, msg interface{}, sendErr error) error
}

// NotifierPlugin provides an alternative notification delivery backend.
type NotifierPlugin interface {
	Plugin
	Notifier() interface{} // Returns notification.Notifier
}
