package indicator

// Conventional RSI parameters.
const (
	DefaultRSIPeriod     = 14
	DefaultRSIOversold   = 30.0
	DefaultRSIOverbought = 70.0
)

// RSI returns the Relative Strength Index at the last close using Wilder smoothing.
// It needs period+1 closes. A window without losses is 100, a flat window is 50.
func RSI(closes []float64, period int) (float64, error) {
	if err := validatePeriod("RSI", period); err != nil {
		return 0, err
	}

	if err := requireLen("RSI", period+1, len(closes)); err != nil {
		return 0, err
	}

	var avgGain, avgLoss float64

	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0

		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50, nil
	case avgLoss == 0:
		return 100, nil
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs), nil
}
