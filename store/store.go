package store

import (
	"context"

	"github.com/xraph/funds/balance"
	"github.com/xraph/funds/fund"
	"github.com/xraph/funds/notification"
	"github.com/xraph/funds/subscription"
	"github.com/xraph/funds/transaction"
)

// Store is the unified storage interface for all engine entities.
// It embeds the per-entity store interfaces, so a backend that
// implements Store satisfies each entity contract by construction.
type Store interface {
	fund.Store
	balance.Store
	transaction.Store
	subscription.Store
	notification.Store

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
