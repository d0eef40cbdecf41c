package indicator

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// Waddah Attar defaults.
const (
	DefaultWaddahFast       = 20
	DefaultWaddahSlow       = 40
	DefaultWaddahSignal     = 9
	DefaultWaddahATR        = 14
	DefaultWaddahMultiplier = 150.0
)

// WaddahAttarValue holds the trend and explosion lines at the last bar.
type WaddahAttarValue struct {
	Trend     float64
	Explosion float64
}

// Bullish reports an expanding move with a rising MACD.
func (w WaddahAttarValue) Bullish() bool { return w.Explosion > 0 && w.Trend > 0 }

// WaddahAttar measures momentum bursts: Trend is the MACD change over the last bar and Explosion
// is the ATR, both scaled by multiplier. It needs slow+signal bars.
func WaddahAttar(bars []types.Bar, fast, slow, signal, atrPeriod int, multiplier float64) (WaddahAttarValue, error) {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	macd, err := MACDSeries(closes, fast, slow, signal)
	if err != nil {
		return WaddahAttarValue{}, err
	}

	// the trend line compares the last two MACD values
	if err := requireLen("WaddahAttar", slow+signal, len(closes)); err != nil {
		return WaddahAttarValue{}, err
	}

	atr, err := ATR(bars, atrPeriod)
	if err != nil {
		return WaddahAttarValue{}, err
	}

	last := macd[len(macd)-1].MACD
	prev := macd[len(macd)-2].MACD

	return WaddahAttarValue{
		Trend:     (last - prev) * multiplier,
		Explosion: atr * multiplier,
	}, nil
}
