package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-scorecard/internal/config"
	"github.com/rxtech-lab/argo-scorecard/internal/datasource"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ScorecardCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func TestScorecardCmdSuite(t *testing.T) {
	suite.Run(t, new(ScorecardCmdTestSuite))
}

func (suite *ScorecardCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *ScorecardCmdTestSuite) path(parts ...string) string {
	return filepath.Join(append([]string{suite.tempDir}, parts...)...)
}

func (suite *ScorecardCmdTestSuite) app(args ...string) error {
	return newApp().Run(context.Background(), append([]string{"scorecard", "--log-level", "error"}, args...))
}

// prepare writes synthetic data and a sample configuration pointing at it.
func (suite *ScorecardCmdTestSuite) prepare() string {
	data := suite.path("data", "synthetic.parquet")
	suite.Require().NoError(suite.app("generate", "--output", data, "--symbols", "6", "--days", "200", "--seed", "7"))
	suite.Require().NoError(suite.app("schema", "--output", suite.path("config"), "--data", data))

	return suite.path("config", sampleConfigName)
}

func (suite *ScorecardCmdTestSuite) TestSchema() {
	suite.Require().NoError(suite.app("schema", "--output", suite.path("config")))

	schema, err := os.ReadFile(suite.path("config", schemaName))
	suite.Require().NoError(err)
	suite.Contains(string(schema), "argo-scorecard-config")

	cfg, err := config.Load(suite.path("config", sampleConfigName))
	suite.Require().NoError(err)
	suite.Equal(config.Default().Data.Path, cfg.Data.Path)

	// an existing sample is kept
	suite.Require().NoError(os.WriteFile(suite.path("config", sampleConfigName), []byte("custom"), 0o644))
	suite.Require().NoError(suite.app("schema", "--output", suite.path("config")))

	body, err := os.ReadFile(suite.path("config", sampleConfigName))
	suite.Require().NoError(err)
	suite.Equal("custom", string(body))
}

func (suite *ScorecardCmdTestSuite) TestGenerate() {
	data := suite.path("data", "synthetic.parquet")
	suite.Require().NoError(suite.app("generate", "--output", data, "--symbols", "3", "--days", "150"))

	ds, err := datasource.NewDataSource("", nil)
	suite.Require().NoError(err)

	defer ds.Close()

	suite.Require().NoError(ds.Initialize(data))

	symbols, err := ds.GetAllSymbols()
	suite.Require().NoError(err)
	suite.Equal([]string{"SYN001", "SYN002", "SYN003"}, symbols)
}

func (suite *ScorecardCmdTestSuite) TestRunWritesOutputs() {
	cfgPath := suite.prepare()
	out := suite.path("results")

	suite.Require().NoError(suite.app("run", "--config", cfgPath, "--output", out))

	for _, name := range []string{"report.json", "stats.yaml", "trades.parquet"} {
		_, err := os.Stat(filepath.Join(out, name))
		suite.NoError(err, name)
	}

	body, err := os.ReadFile(filepath.Join(out, "report.json"))
	suite.Require().NoError(err)

	var decoded struct {
		Strategies []struct {
			StrategyName string `json:"strategy_name"`
		} `json:"strategies"`
	}
	suite.Require().NoError(json.Unmarshal(body, &decoded))

	def := config.Default()
	suite.Len(decoded.Strategies, len(def.Selectors)*len(def.Signals)*len(def.Targets))
}

func (suite *ScorecardCmdTestSuite) TestSingle() {
	cfgPath := suite.prepare()
	def := config.Default()
	out := suite.path("single")

	suite.Require().NoError(suite.app("single", "--config", cfgPath, "--output", out, "--no-trades",
		"--selector", def.Selectors[0].ID, "--signal", def.Signals[0].ID, "--target", def.Targets[0].ID))

	_, err := os.Stat(filepath.Join(out, "trades.parquet"))
	suite.True(os.IsNotExist(err))

	err = suite.app("single", "--config", cfgPath, "--output", out,
		"--selector", "nope", "--signal", def.Signals[0].ID, "--target", def.Targets[0].ID)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *ScorecardCmdTestSuite) TestRunInvalidConfig() {
	bad := suite.path("bad.yaml")
	suite.Require().NoError(os.WriteFile(bad, []byte("version: \"1.0.0\"\n"), 0o644))

	err := suite.app("run", "--config", bad)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
