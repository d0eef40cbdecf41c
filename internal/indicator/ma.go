package indicator

import (
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

func validatePeriod(name string, period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be a positive integer, got %d", name, period)
	}

	return nil
}

func requireLen(name string, required, actual int) error {
	if actual < required {
		return errors.NewInsufficientDataErrorf(required, actual, "",
			"insufficient data for %s: required %d, got %d", name, required, actual)
	}

	return nil
}

// SMA returns the simple average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if err := validatePeriod("SMA", period); err != nil {
		return 0, err
	}

	if err := requireLen("SMA", period, len(values)); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return sum / float64(period), nil
}

// EMASeries returns the exponential moving average at every position from period-1 on.
// The first value is the SMA of the first period values, then
// EMA = v*alpha + EMA_prev*(1-alpha) with alpha = 2/(period+1).
func EMASeries(values []float64, period int) ([]float64, error) {
	if err := validatePeriod("EMA", period); err != nil {
		return nil, err
	}

	if err := requireLen("EMA", period, len(values)); err != nil {
		return nil, err
	}

	alpha := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}

	ema := seed / float64(period)
	out = append(out, ema)

	for _, v := range values[period:] {
		ema = v*alpha + ema*(1-alpha)
		out = append(out, ema)
	}

	return out, nil
}

// EMA returns the exponential moving average at the last value.
func EMA(values []float64, period int) (float64, error) {
	series, err := EMASeries(values, period)
	if err != nil {
		return 0, err
	}

	return series[len(series)-1], nil
}
