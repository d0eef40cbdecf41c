package types

import (
	"cmp"
	"slices"
	"time"
)

// Outcome is the state of a simulated position. Only OutcomeOpen is non-terminal.
type Outcome string

const (
	OutcomeOpen            Outcome = "open"
	OutcomeTargetHit       Outcome = "target_hit"
	OutcomeStopLossHit     Outcome = "stop_loss_hit"
	OutcomeStopLossFailure Outcome = "stop_loss_failure"
	OutcomeTimeout         Outcome = "timeout"
)

// IsTerminal reports whether the position is closed.
func (o Outcome) IsTerminal() bool {
	return o != OutcomeOpen && o != ""
}

// Severity ranks terminal outcomes from best (0) to worst.
func (o Outcome) Severity() int {
	switch o {
	case OutcomeTargetHit:
		return 0
	case OutcomeTimeout:
		return 1
	case OutcomeStopLossHit:
		return 2
	case OutcomeStopLossFailure:
		return 3
	default:
		return -1
	}
}

// Trade is one closed simulated position.
type Trade struct {
	Symbol          string          `json:"symbol" yaml:"symbol"`
	EvaluationIndex EvaluationIndex `json:"evaluation_index" yaml:"evaluation_index"`
	EntryDay        int             `json:"entry_day" yaml:"entry_day"`
	EntryDate       time.Time       `json:"entry_date" yaml:"entry_date"`
	EntryPrice      float64         `json:"entry_price" yaml:"entry_price"`
	ExitDay         int             `json:"exit_day" yaml:"exit_day"`
	ExitDate        time.Time       `json:"exit_date" yaml:"exit_date"`
	ExitPrice       float64         `json:"exit_price" yaml:"exit_price"`
	Outcome         Outcome         `json:"outcome" yaml:"outcome"`
	HoldingDays     int             `json:"holding_days" yaml:"holding_days"`
	Return          float64         `json:"return" yaml:"return"`
	// Success is decided by the target that closed the trade.
	Success bool `json:"success" yaml:"success"`
}

// CompareTrades is the canonical trade order: entry date, symbol, then evaluation index.
func CompareTrades(a, b Trade) int {
	if c := a.EntryDate.Compare(b.EntryDate); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Symbol, b.Symbol); c != 0 {
		return c
	}

	return cmp.Compare(a.EvaluationIndex, b.EvaluationIndex)
}

// SortTrades sorts trades in place into canonical order.
func SortTrades(trades []Trade) {
	slices.SortFunc(trades, CompareTrades)
}
