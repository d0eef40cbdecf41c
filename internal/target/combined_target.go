package target

import (
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// CombinedTarget succeeds only when every constituent succeeds on the same entry.
// Otherwise it reports the most adverse constituent trade.
type CombinedTarget struct {
	id      string
	targets []Target
	inDays  int
}

// NewCombinedTarget needs at least two constituents.
func NewCombinedTarget(id string, targets ...Target) (*CombinedTarget, error) {
	if len(targets) < 2 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration,
			"combined target %q needs at least 2 constituents, got %d", id, len(targets))
	}

	if id == "" {
		ids := make([]string, len(targets))
		for i, t := range targets {
			ids[i] = t.ID()
		}

		id = "combined[" + strings.Join(ids, "+") + "]"
	}

	inDays := 0
	for _, t := range targets {
		inDays = max(inDays, t.InDays())
	}

	return &CombinedTarget{id: id, targets: targets, inDays: inDays}, nil
}

func (c *CombinedTarget) ID() string { return c.id }

func (c *CombinedTarget) InDays() int { return c.inDays }

// Levels averages the constituents' profit targets and keeps the tightest stop.
func (c *CombinedTarget) Levels(entry float64) (optional.Option[float64], float64) {
	sum, n := 0.0, 0
	stop := 0.0

	for i, t := range c.targets {
		tp, sp := t.Levels(entry)
		if tp.IsSome() {
			sum += tp.Unwrap()
			n++
		}

		if i == 0 || sp > stop {
			stop = sp
		}
	}

	if n == 0 {
		return optional.None[float64](), stop
	}

	return optional.Some(sum / float64(n)), stop
}

func (c *CombinedTarget) Evaluate(sig types.Signal, path []types.Bar) types.Trade {
	trades := make([]types.Trade, len(c.targets))
	allSucceeded := true

	for i, t := range c.targets {
		trades[i] = t.Evaluate(sig, path)
		allSucceeded = allSucceeded && trades[i].Success
	}

	if allSucceeded {
		latest := trades[0]
		for _, tr := range trades[1:] {
			if tr.ExitDay > latest.ExitDay {
				latest = tr
			}
		}

		latest.Outcome = types.OutcomeTargetHit
		latest.Success = true

		return latest
	}

	worst := trades[0]
	for _, tr := range trades[1:] {
		if moreAdverse(tr, worst) {
			worst = tr
		}
	}

	worst.Success = false

	return worst
}

// moreAdverse puts failed constituents first, then orders by outcome severity and earlier exit.
// Equal trades keep the earlier constituent.
func moreAdverse(a, b types.Trade) bool {
	if a.Success != b.Success {
		return !a.Success
	}

	if a.Outcome.Severity() != b.Outcome.Severity() {
		return a.Outcome.Severity() > b.Outcome.Severity()
	}

	return a.ExitDay < b.ExitDay
}
