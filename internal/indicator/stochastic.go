package indicator

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// Default stochastic oscillator periods.
const (
	DefaultStochasticK = 14
	DefaultStochasticD = 3
)

// StochasticValue is %K and its %D smoothing at one bar.
type StochasticValue struct {
	K float64
	D float64
}

// Stochastic returns the stochastic oscillator at the last bar. It needs kPeriod+dPeriod-1 bars.
// %K is 50 when the high-low range of the window is flat.
func Stochastic(bars []types.Bar, kPeriod, dPeriod int) (StochasticValue, error) {
	if err := validatePeriod("Stochastic %K", kPeriod); err != nil {
		return StochasticValue{}, err
	}

	if err := validatePeriod("Stochastic %D", dPeriod); err != nil {
		return StochasticValue{}, err
	}

	if err := requireLen("Stochastic", kPeriod+dPeriod-1, len(bars)); err != nil {
		return StochasticValue{}, err
	}

	ks := make([]float64, 0, dPeriod)

	for end := len(bars) - dPeriod + 1; end <= len(bars); end++ {
		window := bars[end-kPeriod : end]
		lowest, highest := window[0].Low, window[0].High

		for _, b := range window[1:] {
			lowest = min(lowest, b.Low)
			highest = max(highest, b.High)
		}

		k := 50.0
		if highest > lowest {
			k = 100 * (window[len(window)-1].Close - lowest) / (highest - lowest)
		}

		ks = append(ks, k)
	}

	d, err := SMA(ks, dPeriod)
	if err != nil {
		return StochasticValue{}, err
	}

	return StochasticValue{K: ks[len(ks)-1], D: d}, nil
}

// Momentum is the last close minus the close period bars earlier.
func Momentum(closes []float64, period int) (float64, error) {
	if err := validatePeriod("Momentum", period); err != nil {
		return 0, err
	}

	if err := requireLen("Momentum", period+1, len(closes)); err != nil {
		return 0, err
	}

	return closes[len(closes)-1] - closes[len(closes)-1-period], nil
}
