package watch

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// RunStartedMsg announces a scorecard run.
type RunStartedMsg struct {
	RunID string
	Total int
}

// CombinationDoneMsg carries one finished combination.
type CombinationDoneMsg struct {
	Done   int
	Total  int
	Result types.BacktestResult
	Score  optional.Option[float64]
}

// RunFinishedMsg ends the run. Card is empty when Err is set.
type RunFinishedMsg struct {
	Card types.Scorecard
	Err  error
}
