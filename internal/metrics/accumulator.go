// Package metrics turns simulated trades into PerformanceMetrics.
//
// Everything that can be computed from sub-totals lives in Accumulator, so partial results from
// parallel workers merge in any grouping. Drawdown and Calmar depend on trade order and are
// computed by Compute over the canonically sorted trade list.
package metrics

import (
	"math"

	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// variances below this are float noise from identical returns
const varianceEpsilon = 1e-18

// Accumulator holds decomposable trade sub-totals. The zero value is empty and ready to use.
type Accumulator struct {
	Count            int
	Successes        int
	StopLosses       int
	StopLossFailures int
	Timeouts         int
	Wins             int
	Losses           int

	SumReturn      float64
	SumSquares     float64
	SumDownsideSq  float64
	GrossProfit    float64
	GrossLoss      float64
	SumHoldingDays int
	MaxReturn      float64
	MinReturn      float64
}

// Add folds one trade into the totals.
func (a *Accumulator) Add(t types.Trade) {
	r := t.Return

	if a.Count == 0 {
		a.MaxReturn, a.MinReturn = r, r
	} else {
		a.MaxReturn = max(a.MaxReturn, r)
		a.MinReturn = min(a.MinReturn, r)
	}

	a.Count++
	a.SumReturn += r
	a.SumSquares += r * r
	a.SumHoldingDays += t.HoldingDays

	if t.Success {
		a.Successes++
	}

	switch t.Outcome {
	case types.OutcomeStopLossHit:
		a.StopLosses++
	case types.OutcomeStopLossFailure:
		a.StopLossFailures++
	case types.OutcomeTimeout:
		a.Timeouts++
	}

	switch {
	case r > 0:
		a.Wins++
		a.GrossProfit += r
	case r < 0:
		a.Losses++
		a.GrossLoss += r
		a.SumDownsideSq += r * r
	}
}

// Merge folds other into a. Merge is associative and commutative.
func (a *Accumulator) Merge(other Accumulator) {
	if other.Count == 0 {
		return
	}

	if a.Count == 0 {
		*a = other

		return
	}

	a.MaxReturn = max(a.MaxReturn, other.MaxReturn)
	a.MinReturn = min(a.MinReturn, other.MinReturn)
	a.Count += other.Count
	a.Successes += other.Successes
	a.StopLosses += other.StopLosses
	a.StopLossFailures += other.StopLossFailures
	a.Timeouts += other.Timeouts
	a.Wins += other.Wins
	a.Losses += other.Losses
	a.SumReturn += other.SumReturn
	a.SumSquares += other.SumSquares
	a.SumDownsideSq += other.SumDownsideSq
	a.GrossProfit += other.GrossProfit
	a.GrossLoss += other.GrossLoss
	a.SumHoldingDays += other.SumHoldingDays
}

// Metrics resolves the order-independent metrics. MaxDrawdown and CalmarRatio are left zero.
func (a Accumulator) Metrics() types.PerformanceMetrics {
	m := types.PerformanceMetrics{
		TotalTrades:      a.Count,
		SuccessCount:     a.Successes,
		StopLossCount:    a.StopLosses,
		StopLossFailures: a.StopLossFailures,
		TimeoutCount:     a.Timeouts,
	}

	if a.Count == 0 {
		return m
	}

	n := float64(a.Count)
	mean := a.SumReturn / n

	m.SuccessRate = float64(a.Successes) / n
	m.StopLossRate = float64(a.StopLosses) / n
	m.StopLossFailureRate = float64(a.StopLossFailures) / n
	m.AvgReturn = mean
	m.MaxReturn = a.MaxReturn
	m.MinReturn = a.MinReturn
	m.AvgHoldingDays = float64(a.SumHoldingDays) / n

	variance := a.SumSquares/n - mean*mean
	if variance > varianceEpsilon {
		m.SharpeRatio = mean / math.Sqrt(variance)
	}

	m.SortinoRatio = indicator.DownsideRatio(mean, a.SumDownsideSq, a.Losses)
	m.ProfitFactor = ratioOrInf(a.GrossProfit, -a.GrossLoss)

	winRate := float64(a.Wins) / n
	avgWin := a.GrossProfit / float64(max(a.Wins, 1))
	avgLoss := a.GrossLoss / float64(max(a.Losses, 1))
	m.Expectancy = winRate*avgWin + (1-winRate)*avgLoss

	return m
}

// ratioOrInf divides, resolving a zero denominator to +Inf for a positive numerator and 0 otherwise.
func ratioOrInf(num, den float64) float64 {
	if den == 0 {
		if num > 0 {
			return math.Inf(1)
		}

		return 0
	}

	return num / den
}

// Compute sorts a copy of trades canonically and returns the full metrics.
func Compute(trades []types.Trade) types.PerformanceMetrics {
	var acc Accumulator
	for _, t := range trades {
		acc.Add(t)
	}

	sorted := make([]types.Trade, len(trades))
	copy(sorted, trades)
	types.SortTrades(sorted)

	return WithPath(acc.Metrics(), sorted)
}

// WithPath fills MaxDrawdown and CalmarRatio from trades already in canonical order.
func WithPath(m types.PerformanceMetrics, ordered []types.Trade) types.PerformanceMetrics {
	if len(ordered) == 0 {
		return m
	}

	returns := make([]float64, len(ordered))
	for i, t := range ordered {
		returns[i] = t.Return
	}

	m.MaxDrawdown = indicator.MaxDrawdown(indicator.EquityCurve(returns))
	m.CalmarRatio = ratioOrInf(m.AvgReturn, m.MaxDrawdown)

	return m
}
