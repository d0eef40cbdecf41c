package target

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// ReturnConfig parameterizes a return target. Returns are fractions, 0.02 meaning 2%.
type ReturnConfig struct {
	TargetReturn     float64
	StopLoss         float64
	Days             int
	FailureTolerance float64
	// TargetFirst resolves a bar that touches both levels as a TargetHit.
	TargetFirst bool
}

// Named return targets used by the default configuration.
var (
	Return1D = ReturnConfig{TargetReturn: 0.02, StopLoss: 0.01, Days: 1, FailureTolerance: 0.01}
	Return3D = ReturnConfig{TargetReturn: 0.06, StopLoss: 0.01, Days: 3, FailureTolerance: 0.01}
	Return5D = ReturnConfig{TargetReturn: 0.01, StopLoss: 0.01, Days: 5, FailureTolerance: 0.01}
)

// ReturnTarget succeeds when the price reaches entry*(1+TargetReturn) within Days bars.
type ReturnTarget struct {
	id   string
	cfg  ReturnConfig
	stop stopRule
}

func NewReturnTarget(id string, cfg ReturnConfig) *ReturnTarget {
	if id == "" {
		id = fmt.Sprintf("return_%.0f%%_%dd", cfg.TargetReturn*100, cfg.Days)
	}

	return &ReturnTarget{
		id:   id,
		cfg:  cfg,
		stop: stopRule{StopLoss: cfg.StopLoss, FailureTolerance: cfg.FailureTolerance},
	}
}

func (t *ReturnTarget) ID() string { return t.id }

func (t *ReturnTarget) InDays() int { return t.cfg.Days }

func (t *ReturnTarget) Levels(entry float64) (optional.Option[float64], float64) {
	return optional.Some(entry * (1 + t.cfg.TargetReturn)), t.stop.level(entry)
}

func (t *ReturnTarget) Evaluate(sig types.Signal, path []types.Bar) types.Trade {
	targetPrice := sig.EntryPrice * (1 + t.cfg.TargetReturn)
	last := t.cfg.Days - 1

	for i := 0; i <= last; i++ {
		bar := path[i]

		if t.cfg.TargetFirst && bar.High >= targetPrice {
			return closeTrade(sig, path, i, max(targetPrice, bar.Open), types.OutcomeTargetHit, true)
		}

		if fill, outcome, hit := t.stop.check(sig.EntryPrice, bar); hit {
			return closeTrade(sig, path, i, fill, outcome, false)
		}

		if bar.High >= targetPrice {
			return closeTrade(sig, path, i, max(targetPrice, bar.Open), types.OutcomeTargetHit, true)
		}
	}

	return closeTrade(sig, path, last, path[last].Close, types.OutcomeTimeout, false)
}
