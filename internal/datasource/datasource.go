// Package datasource loads daily bars into a Universe.
package datasource

import (
	"context"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// Filter narrows the bars loaded into a universe.
type Filter struct {
	// MinBars drops symbols with fewer bars after the date filter.
	MinBars int
	// ExcludePrefixes drops symbols starting with any prefix.
	ExcludePrefixes []string
	// Symbols, when non-empty, restricts loading to these symbols.
	Symbols []string
	Start   optional.Option[time.Time]
	End     optional.Option[time.Time]
}

// Excluded reports whether symbol starts with an excluded prefix.
func (f Filter) Excluded(symbol string) bool {
	for _, p := range f.ExcludePrefixes {
		if p != "" && strings.HasPrefix(symbol, p) {
			return true
		}
	}

	return false
}

type DataSource interface {
	// Initialize points the data source at a parquet file or glob of daily bars.
	Initialize(path string) error
	// GetAllSymbols returns every distinct symbol, sorted.
	GetAllSymbols() ([]string, error)
	// Count returns the number of bars between start and end.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// LoadUniverse reads the filtered bars, oldest first per symbol.
	LoadUniverse(ctx context.Context, filter Filter) (*types.Universe, error)
	// Close releases the underlying database.
	Close() error
}
