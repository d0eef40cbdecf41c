package scorecard

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/backtest"
	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/mocks"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ScorecardTestSuite struct {
	suite.Suite
	universe *types.Universe
}

func TestScorecardSuite(t *testing.T) {
	suite.Run(t, new(ScorecardTestSuite))
}

func (suite *ScorecardTestSuite) SetupTest() {
	gen := mocks.NewDataGenerator(3)
	suite.universe = gen.GenerateUniverse([]string{"000001", "000002", "000003", "600000", "600519", "002415"}, mocks.DefaultConfig())
}

func (suite *ScorecardTestSuite) grid() ([]selector.Selector, []signal.Generator, []target.Target) {
	selectors := []selector.Selector{
		selector.New("trend", 3, selector.NewTrendScorer(selector.DefaultTrendConfig())),
		selector.New("rsi", 3, selector.NewRSIScorer(selector.DefaultRSIConfig())),
	}
	signals := []signal.Generator{
		signal.NewClose("close"),
		signal.NewOpen("open"),
	}
	targets := []target.Target{
		target.NewReturnTarget("return_1d", target.Return1D),
		target.NewGuardTarget("guard_3d", target.Guard3D),
	}

	return selectors, signals, targets
}

func (suite *ScorecardTestSuite) TestEntriesFollowNestedOrder() {
	selectors, signals, targets := suite.grid()

	card, err := NewRunner(nil, DefaultOptions(), nil).Run(context.Background(), suite.universe, selectors, signals, targets, LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Require().Len(card.Entries, 8)

	i := 0
	for _, sel := range selectors {
		for _, sig := range signals {
			for _, tgt := range targets {
				r := card.Entries[i].Result
				suite.Equal(sel.ID(), r.SelectorID)
				suite.Equal(sig.ID(), r.SignalID)
				suite.Equal(tgt.ID(), r.TargetID)
				i++
			}
		}
	}

	_, err = uuid.Parse(card.ID)
	suite.NoError(err)
	suite.False(card.GeneratedAt.IsZero())
	suite.LessOrEqual(len(card.Best), 5)
}

func (suite *ScorecardTestSuite) TestDeterministicUnderParallelism() {
	selectors, signals, targets := suite.grid()

	serialOpts := DefaultOptions()
	serialOpts.Parallelism = 1
	serial, err := NewRunner(backtest.NewEngine(backtest.WithParallelism(1)), serialOpts, nil).
		Run(context.Background(), suite.universe, selectors, signals, targets, LifecycleCallbacks{})
	suite.Require().NoError(err)

	parallelOpts := DefaultOptions()
	parallelOpts.Parallelism = 8
	parallel, err := NewRunner(backtest.NewEngine(backtest.WithParallelism(8)), parallelOpts, nil).
		Run(context.Background(), suite.universe, selectors, signals, targets, LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Equal(serial.Entries, parallel.Entries)
	suite.Equal(serial.Best, parallel.Best)
}

func (suite *ScorecardTestSuite) TestCallbacks() {
	selectors, signals, targets := suite.grid()

	var (
		started  string
		finished []int
		ended    bool
	)

	onStart := OnScorecardStartCallback(func(runID string, total int) error {
		started = runID
		suite.Equal(8, total)

		return nil
	})
	onDone := OnCombinationDoneCallback(func(done, total int, _ types.BacktestResult) error {
		finished = append(finished, done)

		return nil
	})
	onEnd := OnScorecardEndCallback(func(err error) {
		ended = err == nil
	})

	card, err := NewRunner(nil, DefaultOptions(), nil).Run(context.Background(), suite.universe, selectors, signals, targets, LifecycleCallbacks{
		OnScorecardStart:  &onStart,
		OnCombinationDone: &onDone,
		OnScorecardEnd:    &onEnd,
	})
	suite.Require().NoError(err)
	suite.Equal(card.ID, started)
	suite.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}, finished)
	suite.True(ended)
}

func (suite *ScorecardTestSuite) TestCallbackErrorAbortsRun() {
	selectors, signals, targets := suite.grid()

	var endErr error

	onDone := OnCombinationDoneCallback(func(int, int, types.BacktestResult) error {
		return fmt.Errorf("stop")
	})
	onEnd := OnScorecardEndCallback(func(err error) {
		endErr = err
	})

	_, err := NewRunner(nil, DefaultOptions(), nil).Run(context.Background(), suite.universe, selectors, signals, targets, LifecycleCallbacks{
		OnCombinationDone: &onDone,
		OnScorecardEnd:    &onEnd,
	})
	suite.Error(err)
	suite.Equal(err, endErr)
}

func (suite *ScorecardTestSuite) TestEmptyAxesAreRejected() {
	selectors, signals, targets := suite.grid()
	runner := NewRunner(nil, DefaultOptions(), nil)
	ctx := context.Background()

	_, err := runner.Run(ctx, suite.universe, nil, signals, targets, LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeScorecardNoSelectors))

	_, err = runner.Run(ctx, suite.universe, selectors, nil, targets, LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeScorecardNoSignals))

	_, err = runner.Run(ctx, suite.universe, selectors, signals, nil, LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeScorecardNoTargets))

	_, err = runner.Run(ctx, nil, selectors, signals, targets, LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoUniverse))
}

func (suite *ScorecardTestSuite) TestCancellation() {
	selectors, signals, targets := suite.grid()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, DefaultOptions(), nil).Run(ctx, suite.universe, selectors, signals, targets, LifecycleCallbacks{})
	suite.Error(err)
}

func (suite *ScorecardTestSuite) TestSilentSelectorIsUnscored() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	silent := mocks.NewMockSelector(ctrl)
	silent.EXPECT().ID().Return("silent").AnyTimes()
	silent.EXPECT().Select(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	_, signals, targets := suite.grid()

	card, err := NewRunner(nil, DefaultOptions(), nil).Run(context.Background(), suite.universe,
		[]selector.Selector{silent}, signals[:1], targets[:1], LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Require().Len(card.Entries, 1)
	suite.True(card.Entries[0].Score.IsNone())
	suite.Zero(card.Entries[0].Result.Metrics.TotalTrades)
	suite.Empty(card.Best)
}

func (suite *ScorecardTestSuite) TestComposite() {
	m := types.PerformanceMetrics{SuccessRate: 0.6, AvgReturn: 0.02, StopLossRate: 0.3}

	suite.InDelta(0.7*0.6+0.3*0.02, Composite(m, DefaultWeights()), 1e-12)
	suite.InDelta(0.6-0.5*0.3, Composite(m, Weights{Success: 1, StopLoss: 0.5}), 1e-12)
}

func entry(sel, sig, tgt string, score optional.Option[float64]) types.ScorecardEntry {
	return types.ScorecardEntry{
		Result: types.BacktestResult{SelectorID: sel, SignalID: sig, TargetID: tgt},
		Score:  score,
	}
}

func (suite *ScorecardTestSuite) TestRank() {
	entries := []types.ScorecardEntry{
		entry("b", "close", "r1", optional.Some(0.5)),
		entry("a", "open", "r1", optional.Some(0.5)),
		entry("a", "close", "r1", optional.None[float64]()),
		entry("c", "close", "r1", optional.Some(0.9)),
		entry("a", "close", "r2", optional.Some(0.5)),
	}

	suite.Equal([]int{3, 4, 1, 0}, Rank(entries, 0))
	suite.Equal([]int{3, 4}, Rank(entries, 2))
	suite.Empty(Rank(nil, 3))
}

func (suite *ScorecardTestSuite) TestMinTradesFloor() {
	opts := Options{MinTrades: 5, Weights: DefaultWeights()}

	suite.True(opts.Score(types.PerformanceMetrics{TotalTrades: 4, SuccessRate: 1}).IsNone())
	suite.True(opts.Score(types.PerformanceMetrics{TotalTrades: 0}).IsNone())
	suite.InDelta(0.7, opts.Score(types.PerformanceMetrics{TotalTrades: 5, SuccessRate: 1}).Unwrap(), 1e-12)
}
