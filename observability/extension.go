// Package observability provides a metrics extension for the funds
// engine that records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/funds/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnFundSeeded           = (*MetricsExtension)(nil)
	_ plugin.OnSubscribed           = (*MetricsExtension)(nil)
	_ plugin.OnCancelled            = (*MetricsExtension)(nil)
	_ plugin.OnTransactionCompleted = (*MetricsExtension)(nil)
	_ plugin.OnTransactionFailed    = (*MetricsExtension)(nil)
	_ plugin.OnBalanceChanged       = (*MetricsExtension)(nil)
	_ plugin.OnNotificationSent     = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an engine plugin to automatically track fund metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Catalog metrics
	FundsSeeded Counter

	// Subscription metrics
	Subscriptions Counter
	Cancellations Counter

	// Ledger metrics
	TransactionsCompleted Counter
	TransactionsFailed    Counter

	// Balance metrics
	BalanceChanges Counter

	// Notification metrics
	NotificationsSent   Counter
	NotificationsFailed Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Catalog metrics
		FundsSeeded: factory.Counter("funds.catalog.seeded"),

		// Subscription metrics
		Subscriptions: factory.Counter("funds.subscription.completed"),
		Cancellations: factory.Counter("funds.cancellation.completed"),

		// Ledger metrics
		TransactionsCompleted: factory.Counter("funds.transaction.completed"),
		TransactionsFailed:    factory.Counter("funds.transaction.failed"),

		// Balance metrics
		BalanceChanges: factory.Counter("funds.balance.changes"),

		// Notification metrics
		NotificationsSent:   factory.Counter("funds.notification.sent"),
		NotificationsFailed: factory.Counter("funds.notification.failed"),

		// Error metrics
		StoreErrors:  factory.Counter("funds.store.errors"),
		PluginErrors: factory.Counter("funds.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnFundSeeded implements plugin.OnFundSeeded.
func (m *MetricsExtension) OnFundSeeded(_ context.Context, _ interface{}) error {
	m.FundsSeeded.Inc()
	return nil
}

// OnSubscribed implements plugin.OnSubscribed.
func (m *MetricsExtension) OnSubscribed(_ context.Context, _, _ interface{}) error {
	m.Subscriptions.Inc()
	return nil
}

// OnCancelled implements plugin.OnCancelled.
func (m *MetricsExtension) OnCancelled(_ context.Context, _, _ interface{}) error {
	m.Cancellations.Inc()
	return nil
}

// OnTransactionCompleted implements plugin.OnTransactionCompleted.
func (m *MetricsExtension) OnTransactionCompleted(_ context.Context, _ interface{}) error {
	m.TransactionsCompleted.Inc()
	return nil
}

// OnTransactionFailed implements plugin.OnTransactionFailed.
func (m *MetricsExtension) OnTransactionFailed(_ context.Context, _ interface{}, _ error) error {
	m.TransactionsFailed.Inc()
	return nil
}

// OnBalanceChanged implements plugin.OnBalanceChanged.
func (m *MetricsExtension) OnBalanceChanged(_ context.Context, _ string, _, _ interface{}) error {
	m.BalanceChanges.Inc()
	return nil
}

// OnNotificationSent implements plugin.OnNotificationSent.
func (m *MetricsExtension) OnNotificationSent(_ context.Context, _ interface{}, sendErr error) error {
	if sendErr != nil {
		m.NotificationsFailed.Inc()
		return nil
	}
	m.NotificationsSent.Inc()
	return nil
}
