package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/stretchr/testify/suite"
)

type AccumulatorTestSuite struct {
	suite.Suite
}

func TestAccumulatorSuite(t *testing.T) {
	suite.Run(t, new(AccumulatorTestSuite))
}

func trade(day int, symbol string, ret float64, outcome types.Outcome) types.Trade {
	return types.Trade{
		Symbol:      symbol,
		EntryDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Return:      ret,
		Outcome:     outcome,
		HoldingDays: 2,
		Success:     outcome == types.OutcomeTargetHit,
	}
}

func accumulate(trades ...types.Trade) Accumulator {
	var acc Accumulator
	for _, t := range trades {
		acc.Add(t)
	}

	return acc
}

func (suite *AccumulatorTestSuite) sample() []types.Trade {
	return []types.Trade{
		trade(0, "A", 0.05, types.OutcomeTargetHit),
		trade(1, "B", -0.02, types.OutcomeStopLossHit),
		trade(2, "C", 0.01, types.OutcomeTimeout),
		trade(3, "D", -0.06, types.OutcomeStopLossFailure),
		trade(4, "E", 0.05, types.OutcomeTargetHit),
		trade(5, "F", 0.0, types.OutcomeTimeout),
	}
}

func (suite *AccumulatorTestSuite) assertMetricsClose(expected, actual types.PerformanceMetrics) {
	suite.Equal(expected.TotalTrades, actual.TotalTrades)
	suite.Equal(expected.SuccessCount, actual.SuccessCount)
	suite.Equal(expected.StopLossCount, actual.StopLossCount)
	suite.Equal(expected.StopLossFailures, actual.StopLossFailures)
	suite.Equal(expected.TimeoutCount, actual.TimeoutCount)
	suite.InDelta(expected.AvgReturn, actual.AvgReturn, 1e-12)
	suite.InDelta(expected.SharpeRatio, actual.SharpeRatio, 1e-9)
	suite.InDelta(expected.SortinoRatio, actual.SortinoRatio, 1e-9)
	suite.InDelta(expected.ProfitFactor, actual.ProfitFactor, 1e-9)
	suite.InDelta(expected.Expectancy, actual.Expectancy, 1e-12)
	suite.Equal(expected.MaxReturn, actual.MaxReturn)
	suite.Equal(expected.MinReturn, actual.MinReturn)
}

func (suite *AccumulatorTestSuite) TestMergeIsAssociative() {
	trades := suite.sample()
	whole := accumulate(trades...)

	a := accumulate(trades[:2]...)
	b := accumulate(trades[2:4]...)
	c := accumulate(trades[4:]...)

	// (a+b)+c
	left := a
	left.Merge(b)
	left.Merge(c)

	// a+(b+c)
	bc := b
	bc.Merge(c)
	right := a
	right.Merge(bc)

	// c+a+b
	shuffled := c
	shuffled.Merge(a)
	shuffled.Merge(b)

	suite.assertMetricsClose(whole.Metrics(), left.Metrics())
	suite.assertMetricsClose(whole.Metrics(), right.Metrics())
	suite.assertMetricsClose(whole.Metrics(), shuffled.Metrics())

	var empty Accumulator
	empty.Merge(whole)
	suite.assertMetricsClose(whole.Metrics(), empty.Metrics())

	whole.Merge(Accumulator{})
	suite.assertMetricsClose(empty.Metrics(), whole.Metrics())
}

func (suite *AccumulatorTestSuite) TestMetricsValues() {
	m := accumulate(suite.sample()...).Metrics()

	suite.Equal(6, m.TotalTrades)
	suite.Equal(2, m.SuccessCount)
	suite.InDelta(2.0/6.0, m.SuccessRate, 1e-12)
	suite.InDelta(1.0/6.0, m.StopLossRate, 1e-12)
	suite.InDelta(1.0/6.0, m.StopLossFailureRate, 1e-12)
	suite.InDelta(0.03/6.0, m.AvgReturn, 1e-12)
	suite.Equal(0.05, m.MaxReturn)
	suite.Equal(-0.06, m.MinReturn)
	suite.Equal(2.0, m.AvgHoldingDays)
	suite.InDelta(0.11/0.08, m.ProfitFactor, 1e-9)

	// win rate 1/2, avg win 0.11/3, avg loss -0.04
	suite.InDelta(0.5*0.11/3-0.5*0.04, m.Expectancy, 1e-12)
}

func (suite *AccumulatorTestSuite) TestSentinels() {
	empty := Accumulator{}.Metrics()
	suite.Equal(0, empty.TotalTrades)
	suite.Equal(0.0, empty.SuccessRate)

	allWins := accumulate(
		trade(0, "A", 0.02, types.OutcomeTargetHit),
		trade(1, "B", 0.02, types.OutcomeTargetHit),
	).Metrics()
	suite.Equal(0.0, allWins.SharpeRatio)
	suite.True(math.IsInf(allWins.SortinoRatio, 1))
	suite.True(math.IsInf(allWins.ProfitFactor, 1))

	flat := accumulate(trade(0, "A", 0, types.OutcomeTimeout)).Metrics()
	suite.Equal(0.0, flat.ProfitFactor)
	suite.Equal(0.0, flat.SortinoRatio)
}

func (suite *AccumulatorTestSuite) TestComputeIsOrderIndependent() {
	trades := suite.sample()
	reversed := make([]types.Trade, len(trades))
	for i, t := range trades {
		reversed[len(trades)-1-i] = t
	}

	forward := Compute(trades)
	backward := Compute(reversed)
	suite.Equal(forward.MaxDrawdown, backward.MaxDrawdown)
	suite.Equal(forward.CalmarRatio, backward.CalmarRatio)

	// equity 1.05, 1.029, 1.03929, 0.9769326, ...: worst trough against the 1.05 peak
	suite.InDelta((1.05-0.976932600)/1.05, forward.MaxDrawdown, 1e-9)
	suite.InDelta(forward.AvgReturn/forward.MaxDrawdown, forward.CalmarRatio, 1e-9)

	// input slice order untouched
	suite.Equal("A", trades[0].Symbol)

	noDrawdown := Compute([]types.Trade{trade(0, "A", 0.01, types.OutcomeTargetHit)})
	suite.Equal(0.0, noDrawdown.MaxDrawdown)
	suite.True(math.IsInf(noDrawdown.CalmarRatio, 1))

	suite.Equal(types.PerformanceMetrics{}, Compute(nil))
}
