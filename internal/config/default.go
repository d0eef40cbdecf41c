package config

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
	"github.com/rxtech-lab/argo-scorecard/internal/version"
)

// Default returns the stock grid: five selectors, six signals and five targets.
func Default() *Config {
	cfg := &Config{
		Version: version.ConfigVersion,
		Backtest: BacktestConfig{
			BackDays:  DefaultBackDays,
			MinTrades: DefaultMinTrades,
			BestN:     optional.Some(DefaultBestN),
			Weights:   optional.Some(scorecard.DefaultWeights()),
		},
		Data: DataConfig{
			Path:            "data/daily/*.parquet",
			MinBars:         DefaultMinBars,
			ExcludePrefixes: append([]string(nil), DefaultExcludePrefixes...),
		},
		Selectors: []SelectorConfig{
			{ID: "atr_trend", Type: SelectorTypeTrend, TopN: optional.Some(DefaultTopN), Params: map[string]any{"lookback": 100}},
			{ID: "breakthrough_pullback", Type: SelectorTypeReversal, TopN: optional.Some(DefaultTopN)},
			{ID: "volume_decline", Type: SelectorTypeVolume, TopN: optional.Some(DefaultTopN)},
			{ID: "macd", Type: SelectorTypeMACD, TopN: optional.Some(DefaultTopN)},
			{ID: "rsi_oversold", Type: SelectorTypeRSI, TopN: optional.Some(DefaultTopN)},
		},
		Signals: []SignalConfig{
			{ID: "close", Type: SignalTypeClose},
			{ID: "open", Type: SignalTypeOpen},
			{ID: "limit", Type: SignalTypeLimit},
			{ID: "volume_surge", Type: SignalTypeVolumeSurge},
			{ID: "volume_decline", Type: SignalTypeVolumeDecline},
			{ID: "bottom_reverse", Type: SignalTypePattern},
		},
		Targets: []TargetConfig{
			{ID: "return_1d", Type: TargetTypeReturn, TargetReturn: 0.02, StopLoss: 0.01, Days: 1},
			{ID: "return_3d", Type: TargetTypeReturn, TargetReturn: 0.06, StopLoss: 0.01, Days: 3},
			{ID: "return_5d", Type: TargetTypeReturn, TargetReturn: 0.01, StopLoss: 0.01, Days: 5},
			{ID: "guard_3d", Type: TargetTypeGuard, StopLoss: 0.01, Days: 3},
			{ID: "return_1d_guard_3d", Type: TargetTypeCombined, Targets: []string{"return_1d", "guard_3d"}},
		},
	}

	return cfg
}
