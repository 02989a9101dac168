package fund

import (
	"time"

	"github.com/xraph/funds/id"
	"github.com/xraph/funds/types"
)

// seedDefinition describes one default catalog entry.
type seedDefinition struct {
	name     string
	minimum  int64 // whole pesos
	category Category
}

var defaultCatalog = []seedDefinition{
	{"FPV_EL CLIENTE_RECAUDADORA", 75000, CategoryFPV},
	{"FPV_EL CLIENTE_ECOPETROL", 125000, CategoryFPV},
	{"DEUDAPRIVADA", 50000, CategoryFIC},
	{"FDO-ACCIONES", 250000, CategoryFIC},
	{"FPV_EL CLIENTE_DINAMICA", 100000, CategoryFPV},
}

// DefaultFunds returns freshly built Fund records for the default catalog,
// stamped with the given time. Each call generates new IDs; callers that
// seed idempotently should match on Name.
func DefaultFunds(now time.Time) []*Fund {
	out := make([]*Fund, 0, len(defaultCatalog))
	for _, def := range defaultCatalog {
		out = append(out, &Fund{
			Entity:        types.NewEntityAt(now),
			ID:            id.NewFundID(),
			Name:          def.name,
			MinimumAmount: types.COP(def.minimum),
			Category:      def.category,
			Active:        true,
		})
	}
	return out
}
