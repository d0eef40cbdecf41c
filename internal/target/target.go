// Package target simulates exits for entry signals.
//
// A target walks the bars after the entry day, one day at a time, until a terminal outcome is
// reached or its holding window runs out. Within a day the stop-loss is checked before the
// profit target, so an ambiguous bar that touches both counts as a stop.
package target

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// Target closes a simulated position.
type Target interface {
	ID() string
	// InDays is the maximum number of bars walked after the entry day.
	InDays() int
	// Evaluate walks path, the bars after the entry day, and returns the closed trade.
	// path must hold at least InDays bars.
	Evaluate(sig types.Signal, path []types.Bar) types.Trade
	// Levels quotes the profit target and stop prices for an entry price.
	Levels(entry float64) (optional.Option[float64], float64)
}

// priceEpsilon absorbs float error when comparing a fill with its stop level.
const priceEpsilon = 1e-9

// stopRule is the stop-loss shared by every target. A stop that fills more than
// FailureTolerance beyond its level, typically on a gap down, is a StopLossFailure.
type stopRule struct {
	StopLoss         float64
	FailureTolerance float64
}

func (r stopRule) level(entry float64) float64 {
	return entry * (1 - r.StopLoss)
}

// check returns the fill and outcome when bar breaches the stop.
func (r stopRule) check(entry float64, bar types.Bar) (float64, types.Outcome, bool) {
	stop := r.level(entry)
	if bar.Low > stop {
		return 0, types.OutcomeOpen, false
	}

	fill := min(stop, bar.Open)
	if fill < entry*(1-r.StopLoss-r.FailureTolerance)-priceEpsilon*entry {
		return fill, types.OutcomeStopLossFailure, true
	}

	return fill, types.OutcomeStopLossHit, true
}

// closeTrade builds the trade exiting on path[i].
func closeTrade(sig types.Signal, path []types.Bar, i int, price float64, outcome types.Outcome, success bool) types.Trade {
	return types.Trade{
		Symbol:          sig.Symbol,
		EvaluationIndex: sig.EvaluationIndex,
		EntryDay:        sig.EntryDay,
		EntryDate:       sig.EntryDate,
		EntryPrice:      sig.EntryPrice,
		ExitDay:         sig.EntryDay + 1 + i,
		ExitDate:        path[i].Date,
		ExitPrice:       price,
		Outcome:         outcome,
		HoldingDays:     i + 1,
		Return:          price/sig.EntryPrice - 1,
		Success:         success,
	}
}
