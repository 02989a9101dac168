package funds

import "github.com/xraph/funds/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money constructors
var (
	COP       = types.COP
	Zero      = types.Zero
	Parse     = types.Parse
	MustParse = types.MustParse
	Sum       = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
