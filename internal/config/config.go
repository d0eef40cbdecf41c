// Package config loads and validates the scorecard YAML document and builds the strategy
// components it describes.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/datasource"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied to fields left empty in the document.
const (
	DefaultBackDays  = 12
	DefaultMinBars   = 120
	DefaultMinTrades = 1
	DefaultBestN     = 5
	DefaultTopN      = 10
)

// DefaultExcludePrefixes are symbol prefixes of boards the scorecard skips.
var DefaultExcludePrefixes = []string{"688", "300", "301", "302"}

type SelectorType string

const (
	SelectorTypeTrend    SelectorType = "trend"
	SelectorTypeReversal SelectorType = "reversal"
	SelectorTypeVolume   SelectorType = "volume"
	SelectorTypeMACD     SelectorType = "macd"
	SelectorTypeRSI      SelectorType = "rsi"
)

type SignalType string

const (
	SignalTypeClose         SignalType = "close"
	SignalTypeOpen          SignalType = "open"
	SignalTypeLimit         SignalType = "limit"
	SignalTypeVolumeSurge   SignalType = "volume_surge"
	SignalTypeVolumeDecline SignalType = "volume_decline"
	SignalTypePattern       SignalType = "pattern"
)

type TargetType string

const (
	TargetTypeReturn   TargetType = "return"
	TargetTypeGuard    TargetType = "guard"
	TargetTypeCombined TargetType = "combined"
)

// Config is the scorecard document.
type Config struct {
	Version   string           `yaml:"version" json:"version" jsonschema:"title=Version,description=Configuration format version (semver)" validate:"required"`
	Backtest  BacktestConfig   `yaml:"backtest" json:"backtest" jsonschema:"title=Backtest,description=Evaluation window and ranking"`
	Data      DataConfig       `yaml:"data" json:"data" jsonschema:"title=Data,description=Market data source and symbol filters"`
	Selectors []SelectorConfig `yaml:"selectors" json:"selectors" jsonschema:"title=Selectors,minItems=1" validate:"required,min=1,dive"`
	Signals   []SignalConfig   `yaml:"signals" json:"signals" jsonschema:"title=Signals,minItems=1" validate:"required,min=1,dive"`
	Targets   []TargetConfig   `yaml:"targets" json:"targets" jsonschema:"title=Targets,minItems=1" validate:"required,min=1,dive"`
}

// BacktestConfig controls offsets, parallelism and ranking.
type BacktestConfig struct {
	BackDays    int                                `yaml:"back_days" json:"back_days" jsonschema:"title=Back Days,description=Offsets simulated per target when offsets is empty,default=12,minimum=0" validate:"gte=0"`
	Offsets     []int                              `yaml:"offsets,omitempty" json:"offsets,omitempty" jsonschema:"title=Offsets,description=Explicit evaluation offsets (days back from the latest bar)" validate:"dive,gte=0"`
	Parallelism int                                `yaml:"parallelism" json:"parallelism" jsonschema:"title=Parallelism,description=Combinations run at once (0 = number of CPUs),minimum=0" validate:"gte=0"`
	MinTrades   int                                `yaml:"min_trades" json:"min_trades" jsonschema:"title=Min Trades,description=Trade count below which a combination is not ranked,default=1,minimum=0" validate:"gte=0"`
	BestN       optional.Option[int]               `yaml:"best_n" json:"best_n" jsonschema:"title=Best N,description=Number of ranked combinations reported (0 = all),default=5"`
	Weights     optional.Option[scorecard.Weights] `yaml:"weights" json:"weights" jsonschema:"title=Weights,description=Composite score weights"`
}

// DataConfig locates the bars and filters the universe.
type DataConfig struct {
	Path            string                     `yaml:"path" json:"path" jsonschema:"title=Path,description=Parquet file or glob with daily bars" validate:"required"`
	MinBars         int                        `yaml:"min_bars" json:"min_bars" jsonschema:"title=Min Bars,description=Symbols with fewer bars are dropped,default=120,minimum=0" validate:"gte=0"`
	ExcludePrefixes []string                   `yaml:"exclude_prefixes" json:"exclude_prefixes" jsonschema:"title=Exclude Prefixes,description=Symbols starting with any prefix are dropped"`
	Start           optional.Option[time.Time] `yaml:"start" json:"start" jsonschema:"title=Start,description=Optional first bar date"`
	End             optional.Option[time.Time] `yaml:"end" json:"end" jsonschema:"title=End,description=Optional last bar date"`
}

// SelectorConfig declares one selector. Params override the variant defaults.
type SelectorConfig struct {
	ID         string                `yaml:"id" json:"id" jsonschema:"title=ID" validate:"required"`
	Type       SelectorType          `yaml:"type" json:"type" jsonschema:"title=Type,enum=trend,enum=reversal,enum=volume,enum=macd,enum=rsi" validate:"required,oneof=trend reversal volume macd rsi"`
	TopN       optional.Option[int]  `yaml:"top_n" json:"top_n" jsonschema:"title=Top N,description=Candidates kept per offset (0 = all),default=10"`
	Indicators []types.IndicatorType `yaml:"indicators,omitempty" json:"indicators,omitempty" jsonschema:"title=Indicators,description=Supporting indicators attached to each candidate"`
	Params     map[string]any        `yaml:"params,omitempty" json:"params,omitempty" jsonschema:"title=Params,description=Variant parameters"`
}

// SignalConfig declares one signal generator.
type SignalConfig struct {
	ID     string         `yaml:"id" json:"id" jsonschema:"title=ID" validate:"required"`
	Type   SignalType     `yaml:"type" json:"type" jsonschema:"title=Type,enum=close,enum=open,enum=limit,enum=volume_surge,enum=volume_decline,enum=pattern" validate:"required,oneof=close open limit volume_surge volume_decline pattern"`
	Price  string         `yaml:"price,omitempty" json:"price,omitempty" jsonschema:"title=Price Rule,description=Entry price rule for gated signals,enum=close,enum=open,enum=limit" validate:"omitempty,oneof=close open limit"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty" jsonschema:"title=Params,description=Variant parameters"`
}

// TargetConfig declares one exit target. Returns are fractions.
type TargetConfig struct {
	ID               string                   `yaml:"id" json:"id" jsonschema:"title=ID" validate:"required"`
	Type             TargetType               `yaml:"type" json:"type" jsonschema:"title=Type,enum=return,enum=guard,enum=combined" validate:"required,oneof=return guard combined"`
	TargetReturn     float64                  `yaml:"target_return,omitempty" json:"target_return,omitempty" jsonschema:"title=Target Return,description=Take-profit return (return targets),minimum=0" validate:"gte=0"`
	StopLoss         float64                  `yaml:"stop_loss,omitempty" json:"stop_loss,omitempty" jsonschema:"title=Stop Loss,description=Stop-loss fraction below entry,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	Days             int                      `yaml:"days,omitempty" json:"days,omitempty" jsonschema:"title=Days,description=Holding period in trading days,minimum=0" validate:"gte=0"`
	FailureTolerance optional.Option[float64] `yaml:"failure_tolerance" json:"failure_tolerance" jsonschema:"title=Failure Tolerance,description=Gap below the stop that counts as a failed stop (defaults to stop_loss)"`
	TargetFirst      bool                     `yaml:"target_first,omitempty" json:"target_first,omitempty" jsonschema:"title=Target First,description=Count a bar touching both target and stop as a target hit (return targets)"`
	Targets          []string                 `yaml:"targets,omitempty" json:"targets,omitempty" jsonschema:"title=Targets,description=Constituent target ids (combined targets)"`
}

// Read parses the document at path and applies defaults without validating it.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse decodes a YAML document and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// Load reads, defaults and validates the document at path.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills zero or absent values with the documented defaults.
// An explicit top_n or best_n of 0 keeps everything.
func (c *Config) ApplyDefaults() {
	if c.Backtest.BackDays == 0 {
		c.Backtest.BackDays = DefaultBackDays
	}

	if c.Backtest.MinTrades == 0 {
		c.Backtest.MinTrades = DefaultMinTrades
	}

	if c.Backtest.BestN.IsNone() {
		c.Backtest.BestN = optional.Some(DefaultBestN)
	}

	if c.Backtest.Weights.IsNone() {
		c.Backtest.Weights = optional.Some(scorecard.DefaultWeights())
	}

	if c.Data.MinBars == 0 {
		c.Data.MinBars = DefaultMinBars
	}

	if c.Data.ExcludePrefixes == nil {
		c.Data.ExcludePrefixes = append([]string(nil), DefaultExcludePrefixes...)
	}

	for i := range c.Selectors {
		if c.Selectors[i].TopN.IsNone() {
			c.Selectors[i].TopN = optional.Some(DefaultTopN)
		}
	}
}

// ScorecardOptions converts the backtest section into runner options.
func (c *Config) ScorecardOptions() scorecard.Options {
	opts := scorecard.Options{
		Weights:     c.Backtest.Weights.TakeOr(scorecard.DefaultWeights()),
		MinTrades:   c.Backtest.MinTrades,
		BestN:       c.Backtest.BestN.TakeOr(DefaultBestN),
		BackDays:    c.Backtest.BackDays,
		Parallelism: c.Backtest.Parallelism,
	}

	for _, k := range c.Backtest.Offsets {
		opts.Offsets = append(opts.Offsets, types.EvaluationIndex(k))
	}

	return opts
}

// DataFilter converts the data section into a universe filter.
func (c *Config) DataFilter() datasource.Filter {
	return datasource.Filter{
		MinBars:         c.Data.MinBars,
		ExcludePrefixes: c.Data.ExcludePrefixes,
		Start:           c.Data.Start,
		End:             c.Data.End,
	}
}

// WriteFile writes c as YAML.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
