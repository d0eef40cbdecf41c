package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// DefaultATRPeriod is the customary Wilder period.
const DefaultATRPeriod = 14

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(cur, prev types.Bar) float64 {
	return math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
}

// TrueRanges returns the true range of every bar after the first.
func TrueRanges(bars []types.Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}

	out := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		out[i-1] = TrueRange(bars[i], bars[i-1])
	}

	return out
}

// ATR returns the Average True Range at the last bar using Wilder smoothing:
// the first value is the mean of the first period true ranges, then
// atr = (atr*(period-1) + tr) / period. It needs period+1 bars.
func ATR(bars []types.Bar, period int) (float64, error) {
	if err := validatePeriod("ATR", period); err != nil {
		return 0, err
	}

	if err := requireLen("ATR", period+1, len(bars)); err != nil {
		return 0, err
	}

	tr := TrueRanges(bars)

	atr := 0.0
	for _, v := range tr[:period] {
		atr += v
	}

	atr /= float64(period)

	for _, v := range tr[period:] {
		atr = (atr*float64(period-1) + v) / float64(period)
	}

	return atr, nil
}
