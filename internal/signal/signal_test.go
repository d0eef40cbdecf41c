package signal

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/mocks"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
	universe *types.Universe
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) SetupTest() {
	config := mocks.DefaultConfig()
	config.Count = 120
	config.VolumeVariance = 0.9
	suite.universe = mocks.NewDataGenerator(11).GenerateUniverse([]string{"AAA", "BBB", "CCC", "DDD"}, config)
}

func allCandidates(u *types.Universe, k types.EvaluationIndex) []types.Candidate {
	out := make([]types.Candidate, 0, u.Len())
	for _, sym := range u.Symbols() {
		out = append(out, types.Candidate{Symbol: sym, EvaluationIndex: k})
	}

	return out
}

func day(i int) time.Time {
	return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func (suite *SignalTestSuite) TestEntryAlwaysAfterEvaluationDay() {
	generators := []Generator{
		NewClose("close"),
		NewOpen("open"),
		NewLimit("limit", DefaultLimitDiscount),
		NewVolumeSurge("surge", DefaultVolumeSurgeConfig(), CloseRule{}),
		NewVolumeDecline("decline", DefaultVolumeDeclineConfig(), OpenRule{}),
		NewPattern("pattern", DefaultBottomReverseConfig(), OpenRule{BufferPct: DefaultPatternBufferPct}),
	}

	total := 0

	for _, g := range generators {
		for k := types.EvaluationIndex(1); k < 100; k++ {
			for _, sig := range g.Generate(suite.universe, allCandidates(suite.universe, k), k) {
				total++
				suite.Greater(sig.EntryDay, sig.EvaluationDay, "generator %s offset %d", g.ID(), k)
				suite.Equal(k, sig.EvaluationIndex)
				suite.True(sig.ReferencePrice.IsSome())

				s, _ := suite.universe.Series(sig.Symbol)
				suite.Equal(s.Bars[sig.EntryDay].Date, sig.EntryDate)
				suite.Equal(s.Bars[sig.EvaluationDay].Close, sig.ReferencePrice.Unwrap())
			}
		}
	}

	suite.Greater(total, 0)
}

func (suite *SignalTestSuite) TestNoSignalWithoutEntryBar() {
	suite.Empty(NewClose("close").Generate(suite.universe, allCandidates(suite.universe, 0), 0))
}

func (suite *SignalTestSuite) TestPriceRules() {
	s, _ := suite.universe.Series("AAA")
	e, _ := s.EvaluationDay(5)

	closeSignals := NewClose("close").Generate(suite.universe, []types.Candidate{{Symbol: "AAA"}}, 5)
	suite.Require().Len(closeSignals, 1)
	suite.Equal(s.Bars[e+1].Close, closeSignals[0].EntryPrice)
	suite.Equal(e+1, closeSignals[0].EntryDay)

	openSignals := NewOpen("open").Generate(suite.universe, []types.Candidate{{Symbol: "AAA"}}, 5)
	suite.Require().Len(openSignals, 1)
	suite.Equal(s.Bars[e+1].Open, openSignals[0].EntryPrice)

	missing := NewClose("close").Generate(suite.universe, []types.Candidate{{Symbol: "ZZZ"}}, 5)
	suite.Empty(missing)
}

func (suite *SignalTestSuite) TestLimitRule() {
	rule := LimitRule{Discount: 0.02}
	evaluation := types.Bar{Close: 100}

	_, ok := rule.Fill(evaluation, types.Bar{Open: 101, Low: 99})
	suite.False(ok)

	price, ok := rule.Fill(evaluation, types.Bar{Open: 99, Low: 97})
	suite.True(ok)
	suite.Equal(98.0, price)

	// gap down below the limit fills at the open
	price, ok = rule.Fill(evaluation, types.Bar{Open: 95, Low: 94})
	suite.True(ok)
	suite.Equal(95.0, price)

	suite.Equal(98.0, rule.Quote(evaluation))
	suite.Equal("limit-2.00%", rule.Name())
}

func (suite *SignalTestSuite) TestOpenRuleBuffer() {
	rule := OpenRule{BufferPct: 1}
	price, ok := rule.Fill(types.Bar{}, types.Bar{Open: 50})
	suite.True(ok)
	suite.InDelta(50.5, price, 1e-9)
	suite.Equal("open", OpenRule{}.Name())
}

func history(bars ...types.Bar) types.History {
	for i := range bars {
		bars[i].Date = day(i)
	}

	return types.NewHistory("T", 0, bars)
}

func (suite *SignalTestSuite) TestVolumeSurge() {
	p := NewVolumeSurgePredicate(DefaultVolumeSurgeConfig())
	base := []types.Bar{
		{Close: 10, Volume: 100}, {Close: 10, Volume: 100}, {Close: 10, Volume: 100},
		{Close: 10, Volume: 100}, {Close: 10, Volume: 100},
	}

	_, ok := p.Match(history(append(append([]types.Bar{}, base...), types.Bar{Close: 11, Volume: 200})...))
	suite.True(ok)

	_, ok = p.Match(history(append(append([]types.Bar{}, base...), types.Bar{Close: 11, Volume: 199})...))
	suite.False(ok)

	// price filter rejects a down day
	_, ok = p.Match(history(append(append([]types.Bar{}, base...), types.Bar{Close: 9, Volume: 500})...))
	suite.False(ok)

	noFilter := NewVolumeSurgePredicate(VolumeSurgeConfig{Ratio: 2, Window: 5})
	_, ok = noFilter.Match(history(append(append([]types.Bar{}, base...), types.Bar{Close: 9, Volume: 500})...))
	suite.True(ok)
}

func (suite *SignalTestSuite) TestVolumeDecline() {
	p := NewVolumeDeclinePredicate(DefaultVolumeDeclineConfig())

	_, ok := p.Match(history(
		types.Bar{Close: 10, Volume: 1000},
		types.Bar{Close: 10, Volume: 800},
		types.Bar{Close: 10, Volume: 640},
		types.Bar{Close: 10.1, Volume: 500},
	))
	suite.True(ok)

	_, ok = p.Match(history(
		types.Bar{Close: 10, Volume: 1000},
		types.Bar{Close: 10, Volume: 800},
		types.Bar{Close: 10, Volume: 700},
		types.Bar{Close: 10.1, Volume: 500},
	))
	suite.False(ok)

	// price fell over the window
	_, ok = p.Match(history(
		types.Bar{Close: 10, Volume: 1000},
		types.Bar{Close: 10, Volume: 800},
		types.Bar{Close: 10, Volume: 640},
		types.Bar{Close: 9.9, Volume: 500},
	))
	suite.False(ok)
}

func (suite *SignalTestSuite) TestBottomReverse() {
	p := NewBottomReversePredicate(DefaultBottomReverseConfig())

	reason, ok := p.Match(history(
		types.Bar{Open: 10, High: 10.5, Low: 9.5, Close: 9.8, Volume: 100},
		types.Bar{Open: 9.4, High: 10.8, Low: 9.3, Close: 10.6, Volume: 150},
	))
	suite.True(ok)
	suite.Equal("bottom reverse", reason)

	reason, ok = p.Match(history(
		types.Bar{Open: 10, High: 10.5, Low: 9.5, Close: 9.8, Volume: 100},
		types.Bar{Open: 9.8, High: 10.1, Low: 9.7, Close: 10, Volume: 80},
	))
	suite.True(ok)
	suite.Equal("quiet reversal", reason)

	strict := NewBottomReversePredicate(BottomReverseConfig{})
	_, ok = strict.Match(history(
		types.Bar{Open: 10, High: 10.5, Low: 9.5, Close: 9.8, Volume: 100},
		types.Bar{Open: 9.8, High: 10.1, Low: 9.7, Close: 10, Volume: 80},
	))
	suite.False(ok)
}

func (suite *SignalTestSuite) TestRecommendQuotesLastBar() {
	candidates := allCandidates(suite.universe, 0)

	recs := NewLimit("limit", 0.05).Recommend(suite.universe, candidates)
	suite.Require().Len(recs, suite.universe.Len())

	for _, r := range recs {
		s, _ := suite.universe.Series(r.Symbol)
		last := s.Bars[s.Len()-1]
		suite.Equal(last.Close, r.PrevClose)
		suite.InDelta(last.Close*0.95, r.Price, 1e-9)
	}

	// Generate needs an entry bar, Recommend does not.
	suite.Empty(NewClose("close").Generate(suite.universe, candidates, 0))
	suite.Len(NewClose("close").Recommend(suite.universe, candidates), suite.universe.Len())
}
