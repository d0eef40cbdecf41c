package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

const sampleYAML = `
version: "1.0.0"
backtest:
  offsets: [4, 5, 6]
  parallelism: 2
  weights:
    success: 1
    return: 0
    stop_loss: 0.5
data:
  path: bars.parquet
  start: 2024-01-01T00:00:00Z
selectors:
  - id: trend
    type: trend
    top_n: 3
    indicators: [rsi, atr, range_filter, waddah_explosion]
    params:
      lookback: 30
      atr_weight: 0.5
signals:
  - id: surge
    type: volume_surge
    price: limit
    params:
      ratio: 2.5
      discount: 0.01
      price_filter: false
targets:
  - id: r1
    type: return
    target_return: 0.02
    stop_loss: 0.01
    days: 1
    target_first: true
  - id: g3
    type: guard
    stop_loss: 0.01
    days: 3
    failure_tolerance: 0.02
  - id: both
    type: combined
    targets: [r1, g3]
`

func (suite *ConfigTestSuite) parse(doc string) *Config {
	cfg, err := Parse([]byte(doc))
	suite.Require().NoError(err)

	return cfg
}

func (suite *ConfigTestSuite) fieldsOf(err error) map[string]string {
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))

	out := map[string]string{}
	for _, fe := range errors.Fields(err) {
		out[fe.Field] = fe.Reason
	}

	return out
}

func (suite *ConfigTestSuite) TestParseAppliesDefaults() {
	cfg := suite.parse(sampleYAML)
	suite.Require().NoError(cfg.Validate())

	suite.Equal(DefaultBackDays, cfg.Backtest.BackDays)
	suite.Equal(DefaultMinTrades, cfg.Backtest.MinTrades)
	suite.Equal(DefaultBestN, cfg.Backtest.BestN.Unwrap())
	suite.Equal(DefaultMinBars, cfg.Data.MinBars)
	suite.Equal(DefaultExcludePrefixes, cfg.Data.ExcludePrefixes)
	suite.True(cfg.Data.Start.IsSome())
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Data.Start.Unwrap())
	suite.True(cfg.Data.End.IsNone())
	suite.Equal(scorecard.Weights{Success: 1, StopLoss: 0.5}, cfg.Backtest.Weights.Unwrap())
	suite.Equal(0.02, cfg.Targets[1].FailureTolerance.Unwrap())
	suite.True(cfg.Targets[0].FailureTolerance.IsNone())
	suite.True(cfg.Targets[0].TargetFirst)
	suite.False(cfg.Targets[1].TargetFirst)

	opts := cfg.ScorecardOptions()
	suite.Equal([]types.EvaluationIndex{4, 5, 6}, opts.Offsets)
	suite.Equal(2, opts.Parallelism)
	suite.Equal(1.0, opts.Weights.Success)

	filter := cfg.DataFilter()
	suite.Equal(DefaultMinBars, filter.MinBars)
	suite.True(filter.Excluded("688001"))
	suite.Equal(cfg.Data.Start, filter.Start)
	suite.True(filter.End.IsNone())
}

func (suite *ConfigTestSuite) TestBuild() {
	components, err := Build(suite.parse(sampleYAML), nil, nil)
	suite.Require().NoError(err)

	suite.Len(components.Selectors, 1)
	suite.Len(components.Signals, 1)
	suite.Len(components.Targets, 3)

	both, ok := components.Target("both")
	suite.Require().True(ok)
	suite.Equal(3, both.InDays())

	_, ok = components.Selector("trend")
	suite.True(ok)
	_, ok = components.Signal("surge")
	suite.True(ok)
	_, ok = components.Signal("missing")
	suite.False(ok)
}

func (suite *ConfigTestSuite) TestTargetFirstReachesReturnTarget() {
	cfg := suite.parse(sampleYAML)

	path := filepath.Join(suite.T().TempDir(), "scorecard.yaml")
	suite.Require().NoError(cfg.WriteFile(path))

	loaded, err := Load(path)
	suite.Require().NoError(err)
	suite.True(loaded.Targets[0].TargetFirst)

	components, err := Build(loaded, nil, nil)
	suite.Require().NoError(err)

	r1, ok := components.Target("r1")
	suite.Require().True(ok)

	sig := types.Signal{
		Symbol:     "AAA",
		EntryDay:   5,
		EntryDate:  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100,
	}
	// touches the 2% target and the 1% stop on the same day
	bars := []types.Bar{{Date: time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), Open: 100, High: 103, Low: 98.5, Close: 101}}

	trade := r1.Evaluate(sig, bars)
	suite.Equal(types.OutcomeTargetHit, trade.Outcome)
	suite.InDelta(102.0, trade.ExitPrice, 1e-9)
}

func (suite *ConfigTestSuite) TestZeroTopNAndBestNKeepEverything() {
	doc := strings.Replace(sampleYAML, "top_n: 3", "top_n: 0", 1)
	doc = strings.Replace(doc, "  parallelism: 2\n", "  parallelism: 2\n  best_n: 0\n", 1)

	cfg := suite.parse(doc)
	suite.Require().NoError(cfg.Validate())
	suite.Equal(optional.Some(0), cfg.Selectors[0].TopN)
	suite.Equal(optional.Some(0), cfg.Backtest.BestN)
	suite.Equal(0, cfg.ScorecardOptions().BestN)

	absent := suite.parse(strings.Replace(sampleYAML, "    top_n: 3\n", "", 1))
	suite.Equal(optional.Some(DefaultTopN), absent.Selectors[0].TopN)

	cfg.Selectors[0].TopN = optional.Some(-1)
	cfg.Backtest.BestN = optional.Some(-2)
	fields := suite.fieldsOf(cfg.Validate())
	suite.Equal("must be >= 0", fields["selectors[0].top_n"])
	suite.Equal("must be >= 0", fields["backtest.best_n"])
}

func (suite *ConfigTestSuite) TestDefaultBuilds() {
	cfg := Default()
	suite.Require().NoError(cfg.Validate())

	components, err := Build(cfg, nil, nil)
	suite.Require().NoError(err)
	suite.Len(components.Selectors, 5)
	suite.Len(components.Signals, 6)
	suite.Len(components.Targets, 5)
}

func (suite *ConfigTestSuite) TestStructuralErrorsNameFields() {
	cfg := suite.parse(`
version: "1.0.0"
backtest:
  back_days: -1
data:
  path: ""
selectors:
  - id: s
    type: magic
signals:
  - id: close
    type: close
targets:
  - id: r
    type: return
    target_return: 0.02
    stop_loss: 1.5
    days: 1
`)
	fields := suite.fieldsOf(cfg.Validate())

	suite.Contains(fields, "backtest.back_days")
	suite.Contains(fields, "data.path")
	suite.Contains(fields["selectors[0].type"], "must be one of")
	suite.Contains(fields, "targets[0].stop_loss")
}

func (suite *ConfigTestSuite) TestMissingAxes() {
	cfg := suite.parse(`
version: "1.0.0"
data:
  path: bars.parquet
`)
	fields := suite.fieldsOf(cfg.Validate())

	suite.Equal("is required", fields["selectors"])
	suite.Equal("is required", fields["signals"])
	suite.Equal("is required", fields["targets"])
}

func (suite *ConfigTestSuite) TestTargetRules() {
	cfg := Default()
	cfg.Targets = []TargetConfig{
		{ID: "r", Type: TargetTypeReturn, StopLoss: 0.01, Days: 0},
		{ID: "r", Type: TargetTypeGuard, Days: 2},
		{ID: "c", Type: TargetTypeCombined, Targets: []string{"r", "later"}},
		{ID: "later", Type: TargetTypeGuard, StopLoss: 0.01, Days: 1},
		{ID: "solo", Type: TargetTypeCombined, Targets: []string{"later"}},
	}
	fields := suite.fieldsOf(cfg.Validate())

	suite.Equal("must be > 0", fields["targets[0].target_return"])
	suite.Equal("must be >= 1", fields["targets[0].days"])
	suite.Contains(fields["targets[1].id"], "duplicate id")
	suite.Equal("must be > 0", fields["targets[1].stop_loss"])
	suite.Contains(fields["targets[2].targets[1]"], "unknown target")
	suite.Contains(fields["targets[4].targets"], "at least 2")
}

func (suite *ConfigTestSuite) TestVersionAndDates() {
	cfg := Default()
	cfg.Version = "2.0.0"
	cfg.Data.Start = fromPtr(ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	cfg.Data.End = fromPtr(ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	fields := suite.fieldsOf(cfg.Validate())
	suite.Contains(fields["version"], "major version mismatch")
	suite.Contains(fields, "data.end")
}

func (suite *ConfigTestSuite) TestParamErrors() {
	cfg := Default()
	cfg.Selectors = []SelectorConfig{
		{ID: "t", Type: SelectorTypeTrend, TopN: optional.Some(1), Params: map[string]any{"lookback": 1.5, "speed": 3}},
		{ID: "m", Type: SelectorTypeMACD, TopN: optional.Some(1), Params: map[string]any{"fast": 30}},
		{ID: "r", Type: SelectorTypeRSI, TopN: optional.Some(1), Indicators: []types.IndicatorType{"nope"}},
	}
	cfg.Signals = []SignalConfig{
		{ID: "v", Type: SignalTypeVolumeDecline, Params: map[string]any{"price_filter": "yes", "ratio": -1}},
	}

	_, err := Build(cfg, nil, nil)
	fields := suite.fieldsOf(err)

	suite.Equal("must be a whole number", fields["selectors[0].params.lookback"])
	suite.Equal("unknown parameter", fields["selectors[0].params.speed"])
	suite.Contains(fields["selectors[1].params.fast"], "must be < slow")
	suite.Contains(fields["selectors[2].indicators[0]"], "unknown indicator")
	suite.Contains(fields["signals[0].params.price_filter"], "must be a boolean")
	suite.Equal("must be > 0", fields["signals[0].params.ratio"])
}

func (suite *ConfigTestSuite) TestWriteAndLoad() {
	path := filepath.Join(suite.T().TempDir(), "scorecard.yaml")

	cfg := Default()
	cfg.Targets[3].FailureTolerance = fromPtr(ptr(0.03))
	suite.Require().NoError(cfg.WriteFile(path))

	loaded, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal(cfg.Targets, loaded.Targets)
	suite.Equal(cfg.Backtest, loaded.Backtest)
	suite.Equal(cfg.Data.ExcludePrefixes, loaded.Data.ExcludePrefixes)

	_, err = Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	bad := filepath.Join(suite.T().TempDir(), "bad.yaml")
	suite.Require().NoError(os.WriteFile(bad, []byte("selectors: {"), 0644))
	_, err = Load(bad)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestSchema() {
	schema, err := GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, `"back_days"`)
	suite.Contains(schema, `"failure_tolerance"`)
	suite.Contains(schema, `"date-time"`)
	suite.Contains(schema, `"volume_surge"`)
	suite.Contains(schema, "argo-scorecard-config")
}

func ptr[T any](v T) *T { return &v }
