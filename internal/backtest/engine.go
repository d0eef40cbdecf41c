// Package backtest runs one (selector, signal, target) combination over a set of evaluation
// offsets.
//
// Offsets are independent: each is simulated by its own worker over the shared read-only
// universe and returns its own trades and metric sub-totals. The single reduction step merges
// them and sorts trades canonically, so the result does not depend on scheduling.
package backtest

import (
	"context"
	"runtime"

	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/metrics"
	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBackDays is the number of evaluation offsets simulated when none are configured.
const DefaultBackDays = 12

// Combination is one strategy under test.
type Combination struct {
	Selector selector.Selector
	Signal   signal.Generator
	Target   target.Target
}

// DefaultOffsets returns inDays+1 … inDays+backDays, the most recent offsets whose exit window
// is fully inside the data.
func DefaultOffsets(inDays, backDays int) []types.EvaluationIndex {
	offsets := make([]types.EvaluationIndex, 0, backDays)
	for i := 1; i <= backDays; i++ {
		offsets = append(offsets, types.EvaluationIndex(inDays+i))
	}

	return offsets
}

// Engine simulates combinations.
type Engine struct {
	log         *logger.Logger
	parallelism int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithParallelism bounds the number of offsets simulated at once. Zero or less means GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}

	if e.parallelism <= 0 {
		e.parallelism = runtime.GOMAXPROCS(0)
	}

	return e
}

type offsetResult struct {
	trades []types.Trade
	acc    metrics.Accumulator
}

// Run simulates combo at every offset. When offsets is empty the default window for the
// target's holding period is used.
func (e *Engine) Run(ctx context.Context, universe *types.Universe, combo Combination, offsets []types.EvaluationIndex) (types.BacktestResult, error) {
	if universe == nil || universe.Len() == 0 {
		return types.BacktestResult{}, errors.New(errors.ErrCodeBacktestNoUniverse, "universe is empty")
	}

	if combo.Selector == nil || combo.Signal == nil || combo.Target == nil {
		return types.BacktestResult{}, errors.New(errors.ErrCodeBacktestConfigError, "combination is missing a selector, signal or target")
	}

	if len(offsets) == 0 {
		offsets = DefaultOffsets(combo.Target.InDays(), DefaultBackDays)
	}

	results := make([]offsetResult, len(offsets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i, k := range offsets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = e.runOffset(universe, combo, k)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCanceled, "backtest canceled", err)
	}

	var (
		acc    metrics.Accumulator
		trades []types.Trade
	)

	for _, r := range results {
		acc.Merge(r.acc)
		trades = append(trades, r.trades...)
	}

	types.SortTrades(trades)

	result := types.BacktestResult{
		SelectorID: combo.Selector.ID(),
		SignalID:   combo.Signal.ID(),
		TargetID:   combo.Target.ID(),
		Offsets:    offsets,
		Trades:     trades,
		Metrics:    metrics.WithPath(acc.Metrics(), trades),
	}

	e.log.Debug("combination simulated",
		zap.String("selector", result.SelectorID),
		zap.String("signal", result.SignalID),
		zap.String("target", result.TargetID),
		zap.Int("trades", len(trades)))

	return result, nil
}

// runOffset simulates one evaluation offset. Signals without a full exit window are skipped.
func (e *Engine) runOffset(universe *types.Universe, combo Combination, k types.EvaluationIndex) offsetResult {
	var out offsetResult

	candidates := combo.Selector.Select(universe, k)
	if len(candidates) == 0 {
		return out
	}

	inDays := combo.Target.InDays()

	for _, sig := range combo.Signal.Generate(universe, candidates, k) {
		s, ok := universe.Series(sig.Symbol)
		if !ok {
			continue
		}

		path := s.Future(sig.EntryDay, inDays)
		if len(path) < inDays {
			e.log.Debug("signal skipped: exit window beyond data",
				zap.String("symbol", sig.Symbol),
				zap.Int("offset", int(k)),
				zap.Int("in_days", inDays))

			continue
		}

		trade := combo.Target.Evaluate(sig, path)
		out.trades = append(out.trades, trade)
		out.acc.Add(trade)
	}

	return out
}
