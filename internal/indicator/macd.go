package indicator

// Standard MACD periods.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDValue is the MACD line, its signal line and their difference at one bar.
type MACDValue struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACDSeries returns MACD values for every bar where the signal line is defined.
// It needs slow+signal-1 closes.
func MACDSeries(closes []float64, fast, slow, signal int) ([]MACDValue, error) {
	if err := validatePeriod("MACD fast", fast); err != nil {
		return nil, err
	}

	if err := validatePeriod("MACD slow", slow); err != nil {
		return nil, err
	}

	if err := validatePeriod("MACD signal", signal); err != nil {
		return nil, err
	}

	if err := requireLen("MACD", slow+signal-1, len(closes)); err != nil {
		return nil, err
	}

	fastEMA, err := EMASeries(closes, fast)
	if err != nil {
		return nil, err
	}

	slowEMA, err := EMASeries(closes, slow)
	if err != nil {
		return nil, err
	}

	// align both series on the bars where the slow EMA exists
	shift := len(fastEMA) - len(slowEMA)
	line := make([]float64, len(slowEMA))

	for i := range slowEMA {
		line[i] = fastEMA[i+shift] - slowEMA[i]
	}

	signalLine, err := EMASeries(line, signal)
	if err != nil {
		return nil, err
	}

	offset := len(line) - len(signalLine)
	out := make([]MACDValue, len(signalLine))

	for i, s := range signalLine {
		m := line[i+offset]
		out[i] = MACDValue{MACD: m, Signal: s, Histogram: m - s}
	}

	return out, nil
}

// MACD returns the MACD value at the last close.
func MACD(closes []float64, fast, slow, signal int) (MACDValue, error) {
	series, err := MACDSeries(closes, fast, slow, signal)
	if err != nil {
		return MACDValue{}, err
	}

	return series[len(series)-1], nil
}
