package selector

import (
	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// RSIConfig parameterizes the oversold-rebound selector.
type RSIConfig struct {
	Period   int
	Oversold float64
}

func DefaultRSIConfig() RSIConfig {
	return RSIConfig{Period: indicator.DefaultRSIPeriod, Oversold: indicator.DefaultRSIOversold}
}

// RSIScorer rewards symbols turning up out of oversold territory:
// 100 - rsi + 5*(rsi - prevRSI) when yesterday was oversold and RSI rose,
// 50 - rsi while still oversold, ineligible otherwise.
type RSIScorer struct {
	cfg RSIConfig
}

func NewRSIScorer(cfg RSIConfig) *RSIScorer {
	return &RSIScorer{cfg: cfg}
}

func (r *RSIScorer) MinHistory() int { return r.cfg.Period + 2 }

func (r *RSIScorer) Score(h types.History) (Score, bool) {
	closes := h.Closes()

	rsi, err := indicator.RSI(closes, r.cfg.Period)
	if err != nil {
		return Score{}, false
	}

	prev, err := indicator.RSI(closes[:len(closes)-1], r.cfg.Period)
	if err != nil {
		return Score{}, false
	}

	indicators := map[types.IndicatorType]float64{types.IndicatorTypeRSI: rsi}

	switch {
	case prev < r.cfg.Oversold && rsi > prev:
		return Score{Value: 100 - rsi + (rsi-prev)*5, Indicators: indicators}, true
	case rsi < r.cfg.Oversold:
		return Score{Value: 50 - rsi, Indicators: indicators}, true
	default:
		return Score{}, false
	}
}
