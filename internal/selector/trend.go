package selector

import (
	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// TrendConfig parameterizes the ATR trend selector.
type TrendConfig struct {
	Lookback     int
	ATRWeight    float64
	VolumeWeight float64
	TrendWeight  float64
}

// DefaultTrendConfig returns the customary weights.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{Lookback: 20, ATRWeight: 0.4, VolumeWeight: 0.3, TrendWeight: 0.3}
}

// TrendScorer favors volatile, heavily traded, rising symbols.
// score = w_atr*ATR/close + w_vol*volume/avgVolume + w_trend*(close/close[lookback-1 ago] - 1)
type TrendScorer struct {
	cfg TrendConfig
}

func NewTrendScorer(cfg TrendConfig) *TrendScorer {
	return &TrendScorer{cfg: cfg}
}

func (t *TrendScorer) MinHistory() int { return t.cfg.Lookback + 1 }

func (t *TrendScorer) Score(h types.History) (Score, bool) {
	bars := h.Tail(t.cfg.Lookback + 1)
	last := h.Last()

	if last.Close <= 0 {
		return Score{}, false
	}

	atr, err := indicator.ATR(bars, t.cfg.Lookback)
	if err != nil {
		return Score{}, false
	}

	window := bars[1:]
	volumes := make([]float64, len(window))

	for i, b := range window {
		volumes[i] = b.Volume
	}

	volumeRatio := 0.0
	if avg := indicator.Mean(volumes); avg > 0 {
		volumeRatio = last.Volume / avg
	}

	trend := 0.0
	if start, ok := h.Ago(t.cfg.Lookback - 1); ok && start.Close > 0 {
		trend = last.Close/start.Close - 1
	}

	normalizedATR := atr / last.Close

	return Score{
		Value: t.cfg.ATRWeight*normalizedATR + t.cfg.VolumeWeight*volumeRatio + t.cfg.TrendWeight*trend,
		Indicators: map[types.IndicatorType]float64{
			types.IndicatorTypeATR:         atr,
			types.IndicatorTypeVolumeRatio: volumeRatio,
			types.IndicatorTypeTrendChange: trend,
		},
	}, true
}
