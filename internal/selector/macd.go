package selector

import (
	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// MACDConfig parameterizes the MACD selector.
type MACDConfig struct {
	Fast   int
	Slow   int
	Signal int
}

func DefaultMACDConfig() MACDConfig {
	return MACDConfig{Fast: indicator.DefaultMACDFast, Slow: indicator.DefaultMACDSlow, Signal: indicator.DefaultMACDSignal}
}

// MACDScorer scores 100 when the histogram crosses from negative to positive on the evaluation
// day, 50 + 10*change when it is rising, and skips the symbol otherwise.
type MACDScorer struct {
	cfg MACDConfig
}

func NewMACDScorer(cfg MACDConfig) *MACDScorer {
	return &MACDScorer{cfg: cfg}
}

// MinHistory covers the previous day's histogram as well.
func (m *MACDScorer) MinHistory() int { return m.cfg.Slow + m.cfg.Signal }

func (m *MACDScorer) Score(h types.History) (Score, bool) {
	series, err := indicator.MACDSeries(h.Closes(), m.cfg.Fast, m.cfg.Slow, m.cfg.Signal)
	if err != nil || len(series) < 2 {
		return Score{}, false
	}

	cur, prev := series[len(series)-1], series[len(series)-2]
	indicators := map[types.IndicatorType]float64{
		types.IndicatorTypeMACD:          cur.MACD,
		types.IndicatorTypeMACDHistogram: cur.Histogram,
	}

	switch {
	case prev.Histogram < 0 && cur.Histogram > 0:
		return Score{Value: 100, Indicators: indicators}, true
	case cur.Histogram > prev.Histogram:
		return Score{Value: 50 + (cur.Histogram-prev.Histogram)*10, Indicators: indicators}, true
	default:
		return Score{}, false
	}
}
