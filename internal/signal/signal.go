// Package signal turns selector candidates into entry decisions.
//
// A generator is an optional entry Predicate, evaluated on the bars visible on the evaluation
// day, plus a PriceRule that fills on the next bar. Signals therefore always enter strictly after
// the evaluation day.
package signal

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"go.uber.org/zap"
)

// Generator produces entry signals for candidates at offset k.
type Generator interface {
	ID() string
	Generate(universe *types.Universe, candidates []types.Candidate, k types.EvaluationIndex) []types.Signal
}

// Predicate is an entry condition on the evaluation-day history.
type Predicate interface {
	MinHistory() int
	// Match returns a short reason when the condition holds.
	Match(h types.History) (string, bool)
}

// Base combines a predicate and a price rule.
type Base struct {
	id        string
	rule      PriceRule
	predicate Predicate
	log       *logger.Logger
}

// Option configures a Base generator.
type Option func(*Base)

// WithLogger sets the logger used for dropped candidates.
func WithLogger(l *logger.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a generator. A nil predicate accepts every candidate.
func New(id string, rule PriceRule, predicate Predicate, opts ...Option) *Base {
	b := &Base{id: id, rule: rule, predicate: predicate, log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Base) ID() string { return b.id }

// Rule returns the price rule, used to quote recommendations.
func (b *Base) Rule() PriceRule { return b.rule }

// Generate keeps candidate order and drops candidates that fail the predicate, have no entry
// bar, or cannot be filled.
func (b *Base) Generate(universe *types.Universe, candidates []types.Candidate, k types.EvaluationIndex) []types.Signal {
	signals := make([]types.Signal, 0, len(candidates))

	for _, c := range candidates {
		s, ok := universe.Series(c.Symbol)
		if !ok {
			continue
		}

		e, ok := s.EvaluationDay(k)
		if !ok {
			continue
		}

		reason := b.rule.Name()

		if b.predicate != nil {
			h, _ := s.History(k)
			if h.Len() < b.predicate.MinHistory() {
				continue
			}

			why, ok := b.predicate.Match(h)
			if !ok {
				continue
			}

			reason = why
		}

		next := s.Future(e, 1)
		if len(next) == 0 {
			b.log.Debug("signal dropped: no entry bar",
				zap.String("signal", b.id),
				zap.String("symbol", c.Symbol),
				zap.Int("offset", int(k)))

			continue
		}

		price, ok := b.rule.Fill(s.Bars[e], next[0])
		if !ok || price <= 0 {
			continue
		}

		signals = append(signals, types.Signal{
			Symbol:          c.Symbol,
			EvaluationIndex: k,
			EvaluationDay:   e,
			EntryDay:        e + 1,
			EntryDate:       next[0].Date,
			EntryPrice:      price,
			ReferencePrice:  optional.Some(s.Bars[e].Close),
			Reason:          reason,
		})
	}

	return signals
}

// Recommendation is an entry pending for the session after the last bar.
type Recommendation struct {
	Symbol    string
	Price     float64
	PrevClose float64
	Reason    string
}

// Recommend applies the predicate on the most recent bar of each candidate and quotes the
// entry price the rule would aim for on the next session.
func (b *Base) Recommend(universe *types.Universe, candidates []types.Candidate) []Recommendation {
	out := make([]Recommendation, 0, len(candidates))

	for _, c := range candidates {
		s, ok := universe.Series(c.Symbol)
		if !ok {
			continue
		}

		h, ok := s.History(0)
		if !ok {
			continue
		}

		reason := b.rule.Name()

		if b.predicate != nil {
			if h.Len() < b.predicate.MinHistory() {
				continue
			}

			why, ok := b.predicate.Match(h)
			if !ok {
				continue
			}

			reason = why
		}

		last := h.Last()

		price := b.rule.Quote(last)
		if price <= 0 {
			continue
		}

		out = append(out, Recommendation{Symbol: c.Symbol, Price: price, PrevClose: last.Close, Reason: reason})
	}

	return out
}
