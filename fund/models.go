package fund

import (
	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

// Category classifies a fund as voluntary pension (FPV) or collective
// investment (FIC).
type Category string

const (
	CategoryFPV Category = "FPV"
	CategoryFIC Category = "FIC"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c == CategoryFPV || c == CategoryFIC
}

// Fund is an investable product with a minimum entry amount. Funds are
// immutable after creation except for the Active flag; they are never
// hard-deleted, only deactivated.
type Fund struct {
	types.Entity
	ID            id.FundID   `json:"id"`
	Name          string      `json:"name"`
	MinimumAmount types.Money `json:"minimum_amount"`
	Category      Category    `json:"category"`
	Active        bool        `json:"active"`
}
