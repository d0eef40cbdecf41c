package indicator

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// Default band parameters.
const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
	DefaultKeltnerEMAPeriod    = 20
	DefaultKeltnerATRPeriod    = 10
	DefaultKeltnerMultiplier   = 2.0
)

// Bands is an upper/middle/lower envelope.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerBands returns SMA(period) ± k population standard deviations of the last period closes.
func BollingerBands(closes []float64, period int, k float64) (Bands, error) {
	middle, err := SMA(closes, period)
	if err != nil {
		return Bands{}, err
	}

	std := StdDev(closes[len(closes)-period:])

	return Bands{Upper: middle + k*std, Middle: middle, Lower: middle - k*std}, nil
}

// KeltnerChannel returns EMA(emaPeriod) of the closes ± multiplier*ATR(atrPeriod).
func KeltnerChannel(bars []types.Bar, emaPeriod, atrPeriod int, multiplier float64) (Bands, error) {
	middle, err := EMA(types.Closes(bars), emaPeriod)
	if err != nil {
		return Bands{}, err
	}

	atr, err := ATR(bars, atrPeriod)
	if err != nil {
		return Bands{}, err
	}

	return Bands{Upper: middle + multiplier*atr, Middle: middle, Lower: middle - multiplier*atr}, nil
}
