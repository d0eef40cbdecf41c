package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// Range filter defaults.
const (
	DefaultRangeFilterPeriod     = 100
	DefaultRangeFilterMultiplier = 3.0
)

// RangeFilterValue is the filter state at the last close.
// Upward and Downward count consecutive bars the filter rose or fell.
type RangeFilterValue struct {
	Filter   float64
	Range    float64
	Upward   int
	Downward int
}

// RangeFilter follows closes with a line that only moves once price leaves a band around it.
// The band is the average absolute close change smoothed by EMAs of period and 2*period-1,
// scaled by multiplier. It needs 3*period-1 closes.
func RangeFilter(closes []float64, period int, multiplier float64) (RangeFilterValue, error) {
	if err := validatePeriod("RangeFilter", period); err != nil {
		return RangeFilterValue{}, err
	}

	if multiplier <= 0 {
		return RangeFilterValue{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"range filter multiplier must be positive, got %f", multiplier)
	}

	if err := requireLen("RangeFilter", 3*period-1, len(closes)); err != nil {
		return RangeFilterValue{}, err
	}

	changes := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		changes[i-1] = math.Abs(closes[i] - closes[i-1])
	}

	avg, err := EMASeries(changes, period)
	if err != nil {
		return RangeFilterValue{}, err
	}

	smooth, err := EMASeries(avg, 2*period-1)
	if err != nil {
		return RangeFilterValue{}, err
	}

	start := len(closes) - len(smooth)
	out := RangeFilterValue{Filter: closes[start-1]}

	for j, r := range smooth {
		src := closes[start+j]
		rng := r * multiplier
		prev := out.Filter

		out.Filter = stepFilter(src, prev, rng)
		out.Range = rng

		switch {
		case out.Filter > prev:
			out.Upward++
			out.Downward = 0
		case out.Filter < prev:
			out.Downward++
			out.Upward = 0
		}
	}

	return out, nil
}

func stepFilter(src, prev, rng float64) float64 {
	if src > prev {
		if src-rng < prev {
			return prev
		}

		return src - rng
	}

	if src+rng > prev {
		return prev
	}

	return src + rng
}
