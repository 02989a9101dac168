package fund

import (
	"context"

	"github.com/xraph/funds/id"
)

// Store is the persistence interface for the fund catalog.
type Store interface {
	CreateFund(ctx context.Context, f *Fund) error
	GetFund(ctx context.Context, fundID id.FundID) (*Fund, error)
	ListFunds(ctx context.Context, opts ListOpts) ([]*Fund, error)
	SetFundActive(ctx context.Context, fundID id.FundID, active bool) error
}

// ListOpts filters catalog listings.
type ListOpts struct {
	ActiveOnly bool
}
