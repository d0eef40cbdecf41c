package backtest

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/mocks"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

// everyone selects every symbol with a full history, scored by its last close.
type everyone struct{}

func (everyone) MinHistory() int { return 1 }

func (everyone) Score(h types.History) (selector.Score, bool) {
	return selector.Score{Value: h.Last().Close}, true
}

func (suite *EngineTestSuite) universe(series ...types.Series) *types.Universe {
	u, err := types.NewUniverse(series...)
	suite.Require().NoError(err)

	return u
}

func (suite *EngineTestSuite) combination(t target.Target) Combination {
	return Combination{
		Selector: selector.New("all", 0, everyone{}),
		Signal:   signal.NewClose("close"),
		Target:   t,
	}
}

func (suite *EngineTestSuite) TestDefaultOffsets() {
	suite.Equal([]types.EvaluationIndex{4, 5, 6}, DefaultOffsets(3, 3))
	suite.Len(DefaultOffsets(1, DefaultBackDays), DefaultBackDays)
	suite.Empty(DefaultOffsets(1, 0))
}

func (suite *EngineTestSuite) TestRisingSeriesHitsEveryTarget() {
	u := suite.universe(mocks.LinearSeries("UP", 40, 10, 1, 0.01))
	tgt := target.NewReturnTarget("r", target.ReturnConfig{TargetReturn: 0.02, StopLoss: 0.01, Days: 3, FailureTolerance: 0.01})

	result, err := NewEngine().Run(context.Background(), u, suite.combination(tgt), nil)
	suite.Require().NoError(err)

	suite.Equal("all", result.SelectorID)
	suite.Equal("close", result.SignalID)
	suite.Equal("r", result.TargetID)
	suite.Len(result.Offsets, DefaultBackDays)
	suite.Len(result.Trades, DefaultBackDays)
	suite.Equal(DefaultBackDays, result.Metrics.TotalTrades)
	suite.InDelta(1.0, result.Metrics.SuccessRate, 1e-12)

	s, _ := u.Series("UP")
	for _, trade := range result.Trades {
		suite.Equal(types.OutcomeTargetHit, trade.Outcome)
		suite.True(trade.Success)
		suite.Greater(trade.EntryDay, s.Len()-1-int(trade.EvaluationIndex))
		suite.True(trade.ExitDate.After(trade.EntryDate))
	}
}

func (suite *EngineTestSuite) TestFallingSeriesStopsEveryGuard() {
	u := suite.universe(mocks.LinearSeries("DOWN", 40, 100, -1, 0.01))
	tgt := target.NewGuardTarget("g", target.GuardConfig{StopLoss: 0.01, Days: 3, FailureTolerance: 0.01})

	result, err := NewEngine().Run(context.Background(), u, suite.combination(tgt), nil)
	suite.Require().NoError(err)

	suite.Len(result.Trades, DefaultBackDays)
	suite.Zero(result.Metrics.SuccessCount)
	suite.InDelta(1.0, result.Metrics.StopLossRate, 1e-12)

	for _, trade := range result.Trades {
		suite.Equal(types.OutcomeStopLossHit, trade.Outcome)
		suite.Equal(1, trade.HoldingDays)
		suite.Less(trade.Return, 0.0)
	}
}

func (suite *EngineTestSuite) TestOffsetsWithoutExitWindowAreSkipped() {
	u := suite.universe(mocks.LinearSeries("UP", 40, 10, 1, 0.01))
	tgt := target.NewReturnTarget("r", target.ReturnConfig{TargetReturn: 0.02, StopLoss: 0.01, Days: 3, FailureTolerance: 0.01})

	result, err := NewEngine().Run(context.Background(), u, suite.combination(tgt), []types.EvaluationIndex{0, 1, 2, 3, 4})
	suite.Require().NoError(err)

	// offset 3 enters on bar 37 and leaves only two exit bars for a three-day target
	suite.Require().Len(result.Trades, 1)
	suite.Equal(types.EvaluationIndex(4), result.Trades[0].EvaluationIndex)
}

func (suite *EngineTestSuite) TestTradesAreCanonicallyOrdered() {
	u := suite.universe(
		mocks.LinearSeries("BBB", 40, 10, 1, 0.01),
		mocks.LinearSeries("AAA", 40, 20, 1, 0.01),
	)
	tgt := target.NewReturnTarget("r", target.ReturnConfig{TargetReturn: 0.02, StopLoss: 0.01, Days: 2, FailureTolerance: 0.01})

	result, err := NewEngine(WithParallelism(4)).Run(context.Background(), u, suite.combination(tgt), nil)
	suite.Require().NoError(err)
	suite.Len(result.Trades, 2*DefaultBackDays)

	for i := 1; i < len(result.Trades); i++ {
		suite.LessOrEqual(types.CompareTrades(result.Trades[i-1], result.Trades[i]), 0)
	}

	suite.Equal("AAA", result.Trades[0].Symbol)
}

func (suite *EngineTestSuite) TestResultIndependentOfParallelism() {
	gen := mocks.NewDataGenerator(7)
	u := gen.GenerateUniverse([]string{"000001", "000002", "600000", "600001", "000333"}, mocks.DefaultConfig())

	combo := Combination{
		Selector: selector.New("trend", 3, selector.NewTrendScorer(selector.DefaultTrendConfig())),
		Signal:   signal.NewOpen("open"),
		Target:   target.NewReturnTarget("", target.Return3D),
	}

	serial, err := NewEngine(WithParallelism(1)).Run(context.Background(), u, combo, nil)
	suite.Require().NoError(err)

	parallel, err := NewEngine(WithParallelism(8)).Run(context.Background(), u, combo, nil)
	suite.Require().NoError(err)

	suite.Equal(serial, parallel)
}

func (suite *EngineTestSuite) TestErrors() {
	tgt := target.NewReturnTarget("", target.Return1D)

	_, err := NewEngine().Run(context.Background(), nil, suite.combination(tgt), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoUniverse))

	u := suite.universe(mocks.LinearSeries("UP", 40, 10, 1, 0.01))
	_, err = NewEngine().Run(context.Background(), u, Combination{Target: tgt}, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewEngine().Run(ctx, u, suite.combination(tgt), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeCanceled))
}

func (suite *EngineTestSuite) TestEmptySelectionSkipsSignalsAndTargets() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	sel := mocks.NewMockSelector(ctrl)
	gen := mocks.NewMockGenerator(ctrl)
	tgt := mocks.NewMockTarget(ctrl)

	offsets := []types.EvaluationIndex{2, 3, 4}

	sel.EXPECT().Select(gomock.Any(), gomock.Any()).Return(nil).Times(len(offsets))
	sel.EXPECT().ID().Return("mock-selector").AnyTimes()
	gen.EXPECT().ID().Return("mock-signal").AnyTimes()
	tgt.EXPECT().ID().Return("mock-target").AnyTimes()

	u := suite.universe(mocks.LinearSeries("UP", 40, 10, 1, 0.01))

	result, err := NewEngine().Run(context.Background(), u, Combination{Selector: sel, Signal: gen, Target: tgt}, offsets)
	suite.Require().NoError(err)
	suite.Empty(result.Trades)
	suite.Zero(result.Metrics.TotalTrades)
	suite.Equal("mock-target", result.TargetID)
}
