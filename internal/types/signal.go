package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Signal is an entry decision: buy Symbol at EntryPrice on the bar at EntryDay.
// EntryDay is always after EvaluationDay.
type Signal struct {
	Symbol          string
	EvaluationIndex EvaluationIndex
	// EvaluationDay is the position of the evaluation bar in the symbol's series.
	EvaluationDay int
	// EntryDay is the position of the fill bar in the symbol's series.
	EntryDay   int
	EntryDate  time.Time
	EntryPrice float64
	// ReferencePrice is the evaluation-day close, when the generator records it.
	ReferencePrice optional.Option[float64]
	Reason         string
}
