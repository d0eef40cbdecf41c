package types

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// PerformanceMetrics summarizes the trades of one combination.
type PerformanceMetrics struct {
	TotalTrades      int `json:"total_trades" yaml:"total_trades"`
	SuccessCount     int `json:"success_count" yaml:"success_count"`
	StopLossCount    int `json:"stop_loss_count" yaml:"stop_loss_count"`
	StopLossFailures int `json:"stop_loss_failures" yaml:"stop_loss_failures"`
	TimeoutCount     int `json:"timeout_count" yaml:"timeout_count"`

	SuccessRate         float64 `json:"success_rate" yaml:"success_rate"`
	StopLossRate        float64 `json:"stop_loss_rate" yaml:"stop_loss_rate"`
	StopLossFailureRate float64 `json:"stop_loss_fail_rate" yaml:"stop_loss_fail_rate"`

	AvgReturn      float64 `json:"avg_return" yaml:"avg_return"`
	MaxReturn      float64 `json:"max_return" yaml:"max_return"`
	MinReturn      float64 `json:"max_loss" yaml:"max_loss"`
	AvgHoldingDays float64 `json:"avg_hold_days" yaml:"avg_hold_days"`

	// Ratios may be +Inf when the denominator is zero and the numerator positive.
	SharpeRatio  float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	SortinoRatio float64 `json:"-" yaml:"sortino_ratio"`
	CalmarRatio  float64 `json:"-" yaml:"calmar_ratio"`
	ProfitFactor float64 `json:"-" yaml:"profit_factor"`
	Expectancy   float64 `json:"expectancy" yaml:"expectancy"`
	// MaxDrawdown is a fraction of the compounded equity peak, in trade order.
	MaxDrawdown float64 `json:"max_drawdown" yaml:"max_drawdown"`
}

// BacktestResult is the outcome of running one (selector, signal, target) combination.
type BacktestResult struct {
	SelectorID string             `yaml:"selector"`
	SignalID   string             `yaml:"signal"`
	TargetID   string             `yaml:"target"`
	Offsets    []EvaluationIndex  `yaml:"offsets,flow"`
	Trades     []Trade            `yaml:"-"`
	Metrics    PerformanceMetrics `yaml:"metrics"`
}

// ScorecardEntry is one row of the scorecard. Score is None for unranked combinations.
type ScorecardEntry struct {
	Result BacktestResult
	Score  optional.Option[float64]
}

// Scorecard is the full grid-search result. Entries follow configuration order;
// Best holds indices into Entries, best first.
type Scorecard struct {
	ID          string
	GeneratedAt time.Time
	Entries     []ScorecardEntry
	Best        []int
}

// ScorecardStats is the YAML form of a scorecard entry.
type ScorecardStats struct {
	ID        string         `yaml:"id"`
	Timestamp time.Time      `yaml:"timestamp"`
	Rank      int            `yaml:"rank,omitempty"`
	Score     *float64       `yaml:"score,omitempty"`
	Result    BacktestResult `yaml:"result"`
	// TradesFilePath is the path to the trades parquet file, when exported.
	TradesFilePath string `yaml:"trades_file_path,omitempty"`
}

// Stats flattens the scorecard into YAML rows, in entry order.
func (s Scorecard) Stats() []ScorecardStats {
	ranks := make(map[int]int, len(s.Best))
	for r, idx := range s.Best {
		ranks[idx] = r + 1
	}

	out := make([]ScorecardStats, 0, len(s.Entries))
	for i, e := range s.Entries {
		row := ScorecardStats{ID: s.ID, Timestamp: s.GeneratedAt, Rank: ranks[i], Result: e.Result}
		if e.Score.IsSome() {
			v := e.Score.Unwrap()
			row.Score = &v
		}

		out = append(out, row)
	}

	return out
}

// WriteScorecardStats writes the stats rows to path as YAML.
func WriteScorecardStats(path string, stats []ScorecardStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal scorecard stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scorecard stats to file: %w", err)
	}

	return nil
}
