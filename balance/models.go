// Package balance defines the per-user monetary balance record.
package balance

import (
	"github.com/xraph/funds/types"
)

// Balance is a user's available, debitable monetary amount. There is
// exactly one Balance per user; it is created lazily with the engine's
// default amount on first access. It must never go negative as a result
// of an engine workflow — the orchestrator validates debits up front.
type Balance struct {
	types.Entity
	UserID    string      `json:"user_id"`
	Available types.Money `json:"available_balance"`
}
