package indicator

import (
	"math"
)

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}

	return math.Sqrt(sum / float64(len(values)))
}

// CumulativeReturn compounds a sequence of simple returns.
func CumulativeReturn(returns []float64) float64 {
	equity := 1.0
	for _, r := range returns {
		equity *= 1 + r
	}

	return equity - 1
}

// EquityCurve returns compounded equity starting at 1.0, one point per return plus the start.
func EquityCurve(returns []float64) []float64 {
	curve := make([]float64, 0, len(returns)+1)
	equity := 1.0
	curve = append(curve, equity)

	for _, r := range returns {
		equity *= 1 + r
		curve = append(curve, equity)
	}

	return curve
}

// MaxDrawdown is the largest peak-to-trough decline as a fraction of the peak.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	peak := values[0]
	worst := 0.0

	for _, v := range values[1:] {
		if v > peak {
			peak = v

			continue
		}

		if peak > 0 {
			worst = max(worst, (peak-v)/peak)
		}
	}

	return worst
}

// SharpeRatio is the mean excess return over the population standard deviation.
// It is 0 when the deviation is 0.
func SharpeRatio(returns []float64, riskFree float64) float64 {
	std := StdDev(returns)
	if len(returns) == 0 || std == 0 {
		return 0
	}

	return (Mean(returns) - riskFree) / std
}

// SortinoRatio divides the mean excess return by the deviation of the negative returns.
// With no negative returns it is +Inf for a positive excess and 0 otherwise.
func SortinoRatio(returns []float64, riskFree float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := Mean(returns) - riskFree

	var sumSq float64

	n := 0

	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			n++
		}
	}

	return DownsideRatio(excess, sumSq, n)
}

// DownsideRatio resolves excess / sqrt(sumSq/n), mapping an empty downside to +Inf or 0.
func DownsideRatio(excess, sumSq float64, n int) float64 {
	if n == 0 || sumSq == 0 {
		if excess > 0 {
			return math.Inf(1)
		}

		return 0
	}

	return excess / math.Sqrt(sumSq/float64(n))
}
