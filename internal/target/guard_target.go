package target

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// GuardConfig parameterizes a stop-loss guard.
type GuardConfig struct {
	StopLoss         float64
	Days             int
	FailureTolerance float64
}

// Guard3D survives three sessions without losing 1%.
var Guard3D = GuardConfig{StopLoss: 0.01, Days: 3, FailureTolerance: 0.01}

// GuardTarget succeeds when the position survives Days bars without hitting its stop.
type GuardTarget struct {
	id   string
	cfg  GuardConfig
	stop stopRule
}

func NewGuardTarget(id string, cfg GuardConfig) *GuardTarget {
	if id == "" {
		id = fmt.Sprintf("guard_%.0f%%_%dd", cfg.StopLoss*100, cfg.Days)
	}

	return &GuardTarget{
		id:   id,
		cfg:  cfg,
		stop: stopRule{StopLoss: cfg.StopLoss, FailureTolerance: cfg.FailureTolerance},
	}
}

func (t *GuardTarget) ID() string { return t.id }

func (t *GuardTarget) InDays() int { return t.cfg.Days }

func (t *GuardTarget) Levels(entry float64) (optional.Option[float64], float64) {
	return optional.None[float64](), t.stop.level(entry)
}

func (t *GuardTarget) Evaluate(sig types.Signal, path []types.Bar) types.Trade {
	last := t.cfg.Days - 1

	for i := 0; i <= last; i++ {
		if fill, outcome, hit := t.stop.check(sig.EntryPrice, path[i]); hit {
			return closeTrade(sig, path, i, fill, outcome, false)
		}
	}

	return closeTrade(sig, path, last, path[last].Close, types.OutcomeTimeout, true)
}
