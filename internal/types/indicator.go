package types

type IndicatorType string

const (
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeMACDHistogram  IndicatorType = "macd_histogram"
	IndicatorTypeBollingerLower IndicatorType = "bollinger_lower"
	IndicatorTypeBollingerUpper IndicatorType = "bollinger_upper"
	IndicatorTypeKeltnerUpper   IndicatorType = "keltner_upper"
	IndicatorTypeKeltnerLower   IndicatorType = "keltner_lower"
	IndicatorTypeStochasticK    IndicatorType = "stochastic_k"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeATR            IndicatorType = "atr"
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeMomentum       IndicatorType = "momentum"
	IndicatorTypeVolumeRatio    IndicatorType = "volume_ratio"
	IndicatorTypeTrendChange    IndicatorType = "trend_change"
	IndicatorTypeBreakthrough   IndicatorType = "breakthrough"
	IndicatorTypePullback       IndicatorType = "pullback"
	IndicatorTypeResistance     IndicatorType = "resistance"
	IndicatorTypeSupport        IndicatorType = "support"
	IndicatorTypeRangeFilter    IndicatorType = "range_filter"
	IndicatorTypeWaddahTrend    IndicatorType = "waddah_trend"
	IndicatorTypeWaddahBlast    IndicatorType = "waddah_explosion"
)
