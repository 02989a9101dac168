package audithook

// Action constants for audit events.
const (
	// Catalog actions
	ActionFundSeeded = "fund.seeded"

	// Subscription actions
	ActionSubscribed = "subscription.opened"
	ActionCancelled  = "subscription.cancelled"

	// Ledger actions
	ActionTransactionCompleted = "transaction.completed"
	ActionTransactionFailed    = "transaction.failed"

	// Balance actions
	ActionBalanceChanged = "balance.changed"

	// Notification actions
	ActionNotificationSent   = "notification.sent"
	ActionNotificationFailed = "notification.failed"
)

// Resource constants for audit events.
const (
	ResourceFund         = "fund"
	ResourceSubscription = "subscription"
	ResourceTransaction  = "transaction"
	ResourceBalance      = "balance"
	ResourceNotification = "notification"
)

// Category constants for audit events.
const (
	CategoryCatalog      = "catalog"
	CategorySubscription = "subscription"
	CategoryMoney        = "money"
	CategoryDelivery     = "delivery"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
