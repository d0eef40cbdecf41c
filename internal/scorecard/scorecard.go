// Package scorecard grid-searches every (selector, signal, target) triple and ranks them.
package scorecard

import (
	"cmp"
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/backtest"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Lifecycle callback types for a scorecard run.
// Callbacks returning an error abort the run.

// OnScorecardStartCallback is called once before any combination runs.
type OnScorecardStartCallback func(runID string, totalCombinations int) error

// OnCombinationDoneCallback is called after each combination finishes. Calls are serialized;
// done counts finished combinations in completion order.
type OnCombinationDoneCallback func(done int, total int, result types.BacktestResult) error

// OnScorecardEndCallback is called when the run ends (always called via defer).
type OnScorecardEndCallback func(err error)

// LifecycleCallbacks holds the scorecard callbacks. Nil fields are skipped.
type LifecycleCallbacks struct {
	OnScorecardStart  *OnScorecardStartCallback
	OnCombinationDone *OnCombinationDoneCallback
	OnScorecardEnd    *OnScorecardEndCallback
}

// Weights of the composite score.
type Weights struct {
	Success  float64 `yaml:"success" json:"success" jsonschema:"title=Success Weight,default=0.7" validate:"gte=0"`
	Return   float64 `yaml:"return" json:"return" jsonschema:"title=Return Weight,default=0.3" validate:"gte=0"`
	StopLoss float64 `yaml:"stop_loss" json:"stop_loss" jsonschema:"title=Stop Loss Weight,default=0" validate:"gte=0"`
}

// DefaultWeights favors the success rate.
func DefaultWeights() Weights {
	return Weights{Success: 0.7, Return: 0.3}
}

// Composite returns the weighted score of m.
func Composite(m types.PerformanceMetrics, w Weights) float64 {
	return w.Success*m.SuccessRate + w.Return*m.AvgReturn - w.StopLoss*m.StopLossRate
}

// Options configures a Runner.
type Options struct {
	Weights Weights
	// MinTrades is the trade count below which a combination gets no score.
	MinTrades int
	// BestN caps Best. Zero or less keeps every scored combination.
	BestN int
	// Offsets overrides the default window of every target.
	Offsets  []types.EvaluationIndex
	BackDays int
	// Parallelism bounds the number of combinations run at once.
	Parallelism int
}

// DefaultOptions returns the options used when the configuration is silent.
func DefaultOptions() Options {
	return Options{
		Weights:     DefaultWeights(),
		MinTrades:   1,
		BestN:       5,
		BackDays:    backtest.DefaultBackDays,
		Parallelism: runtime.GOMAXPROCS(0),
	}
}

// Runner builds scorecards.
type Runner struct {
	engine *backtest.Engine
	opts   Options
	log    *logger.Logger
	now    func() time.Time
}

// NewRunner creates a runner over engine. A nil logger discards output.
func NewRunner(engine *backtest.Engine, opts Options, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if engine == nil {
		engine = backtest.NewEngine(backtest.WithLogger(log))
	}

	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	if opts.BackDays <= 0 {
		opts.BackDays = backtest.DefaultBackDays
	}

	return &Runner{engine: engine, opts: opts, log: log, now: time.Now}
}

// Run evaluates the cross product selectors × signals × targets. Entries keep that nested order
// whatever the scheduling.
func (r *Runner) Run(
	ctx context.Context,
	universe *types.Universe,
	selectors []selector.Selector,
	signals []signal.Generator,
	targets []target.Target,
	callbacks LifecycleCallbacks,
) (card types.Scorecard, err error) {
	if callbacks.OnScorecardEnd != nil {
		defer func() {
			(*callbacks.OnScorecardEnd)(err)
		}()
	}

	switch {
	case universe == nil || universe.Len() == 0:
		return types.Scorecard{}, errors.New(errors.ErrCodeBacktestNoUniverse, "universe is empty")
	case len(selectors) == 0:
		return types.Scorecard{}, errors.New(errors.ErrCodeScorecardNoSelectors, "no selectors configured")
	case len(signals) == 0:
		return types.Scorecard{}, errors.New(errors.ErrCodeScorecardNoSignals, "no signals configured")
	case len(targets) == 0:
		return types.Scorecard{}, errors.New(errors.ErrCodeScorecardNoTargets, "no targets configured")
	}

	combos := make([]backtest.Combination, 0, len(selectors)*len(signals)*len(targets))
	for _, sel := range selectors {
		for _, sig := range signals {
			for _, tgt := range targets {
				combos = append(combos, backtest.Combination{Selector: sel, Signal: sig, Target: tgt})
			}
		}
	}

	runID := uuid.New().String()
	total := len(combos)

	if callbacks.OnScorecardStart != nil {
		if err := (*callbacks.OnScorecardStart)(runID, total); err != nil {
			return types.Scorecard{}, err
		}
	}

	r.log.Info("scorecard started",
		zap.String("run_id", runID),
		zap.Int("combinations", total),
		zap.Int("symbols", universe.Len()))

	entries := make([]types.ScorecardEntry, total)

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)

	for i, combo := range combos {
		g.Go(func() error {
			offsets := r.opts.Offsets
			if len(offsets) == 0 {
				offsets = backtest.DefaultOffsets(combo.Target.InDays(), r.opts.BackDays)
			}

			result, err := r.engine.Run(gctx, universe, combo, offsets)
			if err != nil {
				return err
			}

			entries[i] = types.ScorecardEntry{Result: result, Score: r.opts.Score(result.Metrics)}

			mu.Lock()
			defer mu.Unlock()

			done++

			r.log.Info("combination finished",
				zap.Int("done", done),
				zap.Int("total", total),
				zap.String("selector", result.SelectorID),
				zap.String("signal", result.SignalID),
				zap.String("target", result.TargetID),
				zap.Int("trades", result.Metrics.TotalTrades),
				zap.Float64("success_rate", result.Metrics.SuccessRate))

			if callbacks.OnCombinationDone != nil {
				return (*callbacks.OnCombinationDone)(done, total, result)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.Scorecard{}, err
	}

	return types.Scorecard{
		ID:          runID,
		GeneratedAt: r.now(),
		Entries:     entries,
		Best:        Rank(entries, r.opts.BestN),
	}, nil
}

// Score returns the composite score of m, or None below the trade floor.
func (o Options) Score(m types.PerformanceMetrics) optional.Option[float64] {
	if m.TotalTrades == 0 || m.TotalTrades < o.MinTrades {
		return optional.None[float64]()
	}

	return optional.Some(Composite(m, o.Weights))
}

// Rank returns the indices of the n best scored entries, by score descending and then by
// (selector, signal, target) id. n <= 0 keeps every scored entry.
func Rank(entries []types.ScorecardEntry, n int) []int {
	best := make([]int, 0, len(entries))
	for i, e := range entries {
		if e.Score.IsSome() {
			best = append(best, i)
		}
	}

	slices.SortFunc(best, func(a, b int) int {
		ea, eb := entries[a], entries[b]
		if c := cmp.Compare(eb.Score.Unwrap(), ea.Score.Unwrap()); c != 0 {
			return c
		}

		return cmp.Or(
			cmp.Compare(ea.Result.SelectorID, eb.Result.SelectorID),
			cmp.Compare(ea.Result.SignalID, eb.Result.SignalID),
			cmp.Compare(ea.Result.TargetID, eb.Result.TargetID),
			cmp.Compare(a, b),
		)
	})

	if n > 0 && len(best) > n {
		best = best[:n]
	}

	return best
}
