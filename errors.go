package funds

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("funds: not found")
	ErrAlreadyExists = errors.New("funds: already exists")
	ErrInvalidInput  = errors.New("funds: invalid input")

	// Fund catalog errors
	ErrFundNotFound = errors.New("funds: fund not found")
	ErrFundInactive = errors.New("funds: fund is not open for subscription")

	// Subscription errors
	ErrAlreadySubscribed    = errors.New("funds: already subscribed to fund")
	ErrNoActiveSubscription = errors.New("funds: no active subscription to fund")

	// Balance errors
	ErrInsufficientBalance  = errors.New("funds: insufficient balance")
	ErrBalanceUpdateFailed  = errors.New("funds: balance update failed")
	ErrNegativeBalanceGuard = errors.New("funds: operation would drive balance negative")

	// Transaction errors
	ErrTransactionFinal = errors.New("funds: transaction already finalized")

	// Notification errors
	ErrNotifyBufferFull = errors.New("funds: notification buffer full")

	// Store errors
	ErrStorageUnavailable = errors.New("funds: storage unavailable")
	ErrStoreNotReady      = errors.New("funds: store not ready")
	ErrStoreClosed        = errors.New("funds: store is closed")
	ErrMigrationFailed    = errors.New("funds: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("funds: validation failed for %s: %s", e.Field, e.Message)
}

// InsufficientBalanceError carries the shortfall detail for a rejected
// debit. It wraps ErrInsufficientBalance so errors.Is keeps working.
type InsufficientBalanceError struct {
	Required  string
	Available string
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("funds: insufficient balance: required %s, available %s", e.Required, e.Available)
}

func (e InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrFundNotFound)
}

// IsValidation returns true for errors caused by the caller's request
// rather than by the system: the request can be corrected and resent.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrFundInactive) ||
		errors.Is(err, ErrAlreadySubscribed) ||
		errors.Is(err, ErrNoActiveSubscription) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.As(err, &ve)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrBalanceUpdateFailed) ||
		errors.Is(err, ErrNotifyBufferFull)
}
