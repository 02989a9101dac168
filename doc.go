// Package funds provides an embeddable fund subscription engine for Go
// applications.
//
// Funds is designed as a library, not a service. Import it directly into
// your Go application. It provides:
//
//   - A seedable catalog of voluntary pension (FPV) and collective
//     investment (FIC) funds with per-fund minimum amounts
//   - Per-user balances created lazily with a configurable opening amount
//   - An append-only transaction ledger where every balance mutation is
//     recorded as PENDING and finalized as COMPLETED or FAILED
//   - A subscription registry projection for fast position lookups
//   - Best-effort transaction notifications over email or SMS, dispatched
//     by a background worker that never blocks the money path
//
// # Quick Start
//
// Create an engine instance with your preferred store:
//
//	import (
//	    "github.com/xraph/funds"
//	    "github.com/xraph/funds/store/mongo"
//	)
//
//	// Initialize store
//	store, err := mongo.New(ctx, mongoURI, "funds")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create engine
//	e := funds.New(store)
//
//	// Start the engine (migrates storage, begins background workers)
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop()
//
//	// Seed the default catalog
//	if _, err := e.SeedFunds(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Core Concepts
//
// Subscribing debits the fund's minimum amount from the user's balance
// and opens a position:
//
//	res, err := e.Subscribe(ctx, userID, fundID)
//	if errors.Is(err, funds.ErrInsufficientBalance) {
//	    // Balance cannot cover the fund's minimum
//	}
//
// Cancelling closes the position and refunds the amount that was
// debited when it was opened:
//
//	res, err := e.Cancel(ctx, userID, fundID)
//
// The ledger is the source of truth. Cancellation eligibility is decided
// by scanning recent ledger records for an open position, never by
// trusting the registry projection alone.
//
// # Money
//
// All monetary calculations use arbitrary-precision decimal arithmetic
// to avoid floating-point drift. Amounts are COP by default.
//
// # TypeID
//
// Funds and transactions use TypeID for globally unique, type-safe
// identifiers:
//
//	fund_01h2xcejqtf2nbrexx3vqjhp41  // Fund ID
//	txn_01h455vb4pex5vsknk084sn02q   // Transaction ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package funds
