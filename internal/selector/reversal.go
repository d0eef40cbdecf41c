package selector

import (
	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// ReversalConfig parameterizes the breakthrough-pullback selector. Percentages are in percent.
type ReversalConfig struct {
	Lookback           int
	MinBreakthroughPct float64
	MaxPullbackPct     float64
	VolumeDeclineRatio float64
}

func DefaultReversalConfig() ReversalConfig {
	return ReversalConfig{Lookback: 10, MinBreakthroughPct: 5, MaxPullbackPct: 5, VolumeDeclineRatio: 0.7}
}

// ReversalScorer looks for a recent breakout day (close up at least MinBreakthroughPct on rising
// volume) followed by a shallow pullback on shrinking volume.
// score = breakthrough% - pullback%
type ReversalScorer struct {
	cfg ReversalConfig
}

func NewReversalScorer(cfg ReversalConfig) *ReversalScorer {
	return &ReversalScorer{cfg: cfg}
}

func (r *ReversalScorer) MinHistory() int { return r.cfg.Lookback + 1 }

func (r *ReversalScorer) Score(h types.History) (Score, bool) {
	last := h.Last()

	for i := 1; i < r.cfg.Lookback; i++ {
		day, ok := h.Ago(i)
		if !ok {
			break
		}

		prev, ok := h.Ago(i + 1)
		if !ok || prev.Close <= 0 {
			break
		}

		breakthrough := (day.Close - prev.Close) / prev.Close * 100
		if breakthrough < r.cfg.MinBreakthroughPct || day.Volume <= prev.Volume {
			continue
		}

		// the most recent breakout decides
		pullback := (day.Close - last.Close) / day.Close * 100
		if pullback <= 0 || pullback > r.cfg.MaxPullbackPct {
			return Score{}, false
		}

		if last.Volume > day.Volume*r.cfg.VolumeDeclineRatio {
			return Score{}, false
		}

		indicators := map[types.IndicatorType]float64{
			types.IndicatorTypeBreakthrough: breakthrough,
			types.IndicatorTypePullback:     pullback,
		}

		if rsi, err := indicator.RSI(h.Closes(), indicator.DefaultRSIPeriod); err == nil {
			indicators[types.IndicatorTypeRSI] = rsi
		}

		if bands, err := indicator.BollingerBands(h.Closes(), indicator.DefaultBollingerPeriod, indicator.DefaultBollingerMultiplier); err == nil {
			indicators[types.IndicatorTypeBollingerLower] = bands.Lower
		}

		return Score{Value: breakthrough - pullback, Indicators: indicators}, true
	}

	return Score{}, false
}
