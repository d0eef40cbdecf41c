// Package report turns a scorecard into the artifacts a run leaves behind: the JSON summary
// with next-session recommendations, a console table, YAML stats and a trade export.
package report

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/shopspring/decimal"
)

// Report is the JSON summary of a scorecard run.
type Report struct {
	UpdateDate       string     `json:"update_date"`
	RunID            string     `json:"run_id,omitempty"`
	Strategies       []Strategy `json:"strategies"`
	BestCombinations []int      `json:"best_combinations"`
}

// Strategy is one (selector, signal, target) combination.
type Strategy struct {
	StrategyName    string           `json:"strategy_name"`
	SignalName      string           `json:"signal_name"`
	TargetName      string           `json:"target_name"`
	Score           *float64         `json:"score,omitempty"`
	Performance     Performance      `json:"performance"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Performance mirrors types.PerformanceMetrics with every value finite.
type Performance struct {
	TotalTrades      int     `json:"total_trades"`
	SuccessRate      float64 `json:"success_rate"`
	AvgReturn        float64 `json:"avg_return"`
	MaxReturn        float64 `json:"max_return"`
	MaxLoss          float64 `json:"max_loss"`
	AvgHoldDays      float64 `json:"avg_hold_days"`
	StopLossRate     float64 `json:"stop_loss_rate"`
	StopLossFailRate float64 `json:"stop_loss_fail_rate"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
}

// Recommendation is an entry for the session after the most recent bar.
type Recommendation struct {
	Symbol        string   `json:"symbol"`
	BuyPrice      float64  `json:"buy_price"`
	TargetPrice   *float64 `json:"target_price"`
	StopLossPrice float64  `json:"stop_loss_price"`
	PrevClose     float64  `json:"prev_close"`
	Reason        string   `json:"reason,omitempty"`
}

// Components resolves the ids stored in a scorecard back to instances.
type Components interface {
	Selector(id string) (selector.Selector, bool)
	Signal(id string) (signal.Generator, bool)
	Target(id string) (target.Target, bool)
}

// recommender is implemented by generators that can quote the next session.
type recommender interface {
	Recommend(universe *types.Universe, candidates []types.Candidate) []signal.Recommendation
}

const (
	priceDecimals  = 2
	metricDecimals = 4
)

// Build assembles the JSON report. Recommendations are computed on the most recent bar of
// universe. Components or universe may be nil, in which case recommendations are empty.
func Build(card types.Scorecard, components Components, universe *types.Universe) Report {
	r := Report{
		RunID:            card.ID,
		Strategies:       make([]Strategy, 0, len(card.Entries)),
		BestCombinations: append([]int{}, card.Best...),
	}

	if universe != nil {
		r.UpdateDate = universe.LatestDate().Format(time.DateOnly)
	} else {
		r.UpdateDate = card.GeneratedAt.Format(time.DateOnly)
	}

	// selectors are shared across many combinations
	picks := make(map[string][]types.Candidate)

	for _, e := range card.Entries {
		res := e.Result
		s := Strategy{
			StrategyName:    res.SelectorID,
			SignalName:      res.SignalID,
			TargetName:      res.TargetID,
			Performance:     performance(res.Metrics),
			Recommendations: []Recommendation{},
		}

		if e.Score.IsSome() {
			v := round(finite(e.Score.Unwrap()), metricDecimals)
			s.Score = &v
		}

		if components != nil && universe != nil {
			s.Recommendations = recommend(components, universe, res, picks)
		}

		r.Strategies = append(r.Strategies, s)
	}

	return r
}

func recommend(components Components, universe *types.Universe, res types.BacktestResult, picks map[string][]types.Candidate) []Recommendation {
	out := []Recommendation{}

	sel, ok := components.Selector(res.SelectorID)
	if !ok {
		return out
	}

	gen, ok := components.Signal(res.SignalID)
	if !ok {
		return out
	}

	rec, ok := gen.(recommender)
	if !ok {
		return out
	}

	tgt, ok := components.Target(res.TargetID)
	if !ok {
		return out
	}

	candidates, cached := picks[res.SelectorID]
	if !cached {
		candidates = sel.Select(universe, 0)
		picks[res.SelectorID] = candidates
	}

	for _, q := range rec.Recommend(universe, candidates) {
		tp, stop := tgt.Levels(q.Price)

		r := Recommendation{
			Symbol:        q.Symbol,
			BuyPrice:      round(q.Price, priceDecimals),
			StopLossPrice: round(stop, priceDecimals),
			PrevClose:     round(q.PrevClose, priceDecimals),
			Reason:        q.Reason,
		}

		if tp.IsSome() {
			v := round(tp.Unwrap(), priceDecimals)
			r.TargetPrice = &v
		}

		out = append(out, r)
	}

	return out
}

func performance(m types.PerformanceMetrics) Performance {
	return Performance{
		TotalTrades:      m.TotalTrades,
		SuccessRate:      round(m.SuccessRate, metricDecimals),
		AvgReturn:        round(m.AvgReturn, metricDecimals),
		MaxReturn:        round(m.MaxReturn, metricDecimals),
		MaxLoss:          round(m.MinReturn, metricDecimals),
		AvgHoldDays:      round(m.AvgHoldingDays, metricDecimals),
		StopLossRate:     round(m.StopLossRate, metricDecimals),
		StopLossFailRate: round(m.StopLossFailureRate, metricDecimals),
		SharpeRatio:      round(finite(m.SharpeRatio), metricDecimals),
		MaxDrawdown:      round(m.MaxDrawdown, metricDecimals),
	}
}

// finite maps NaN and infinities to 0; JSON cannot carry them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(finite(v)).Round(places).InexactFloat64()
}

// WriteJSON writes the report to path, indented.
func WriteJSON(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to marshal report", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write report %s", path)
	}

	return nil
}

// WriteStats writes the YAML stats rows, linking the trades export when there is one.
func WriteStats(path string, card types.Scorecard, tradesPath string) error {
	stats := card.Stats()
	for i := range stats {
		stats[i].TradesFilePath = tradesPath
	}

	if err := types.WriteScorecardStats(path, stats); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write stats %s", path)
	}

	return nil
}
