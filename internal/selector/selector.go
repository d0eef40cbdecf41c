// Package selector ranks the symbols of a universe on an evaluation day.
//
// Every variant only supplies a Scorer. The shared Base driver hands each scorer a
// look-ahead-safe History, drops ineligible symbols, orders candidates by score (ties by symbol)
// and keeps the top N, so those rules hold identically for every variant.
package selector

import (
	"math"

	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"go.uber.org/zap"
)

// Selector picks candidate symbols for an evaluation offset.
type Selector interface {
	ID() string
	Select(universe *types.Universe, k types.EvaluationIndex) []types.Candidate
}

// Score is a scorer's opinion of one symbol.
type Score struct {
	Value      float64
	Indicators map[types.IndicatorType]float64
}

// Scorer is the variant-specific part of a selector.
type Scorer interface {
	// MinHistory is the number of visible bars the scorer needs.
	MinHistory() int
	// Score returns false when the symbol is not eligible on this day.
	Score(h types.History) (Score, bool)
}

// Base drives a Scorer over a universe.
type Base struct {
	id         string
	topN       int
	scorer     Scorer
	supporting []indicator.Indicator
	log        *logger.Logger
}

// Option configures a Base selector.
type Option func(*Base)

// WithIndicators attaches extra indicator values to every candidate.
func WithIndicators(indicators ...indicator.Indicator) Option {
	return func(b *Base) {
		b.supporting = append(b.supporting, indicators...)
	}
}

// WithLogger sets the logger used for skipped symbols.
func WithLogger(l *logger.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a selector. A topN of zero or less keeps every eligible candidate.
func New(id string, topN int, scorer Scorer, opts ...Option) *Base {
	b := &Base{id: id, topN: topN, scorer: scorer, log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Base) ID() string { return b.id }

// Select scores every symbol visible at offset k and returns the ordered top N.
func (b *Base) Select(universe *types.Universe, k types.EvaluationIndex) []types.Candidate {
	var candidates []types.Candidate

	universe.Each(func(s types.Series) {
		h, ok := s.History(k)
		if !ok || h.Len() < b.scorer.MinHistory() {
			b.log.Debug("symbol skipped: short history",
				zap.String("selector", b.id),
				zap.String("symbol", s.Symbol),
				zap.Int("offset", int(k)))

			return
		}

		score, ok := b.scorer.Score(h)
		if !ok || math.IsNaN(score.Value) || math.IsInf(score.Value, 0) {
			return
		}

		indicators := make(map[types.IndicatorType]float64, len(score.Indicators)+len(b.supporting))
		for name, v := range score.Indicators {
			indicators[name] = v
		}

		for _, ind := range b.supporting {
			if v, err := ind.Value(h); err == nil {
				indicators[ind.Name()] = v
			}
		}

		candidates = append(candidates, types.Candidate{
			Symbol:          s.Symbol,
			Score:           score.Value,
			Indicators:      indicators,
			EvaluationIndex: k,
		})
	})

	types.SortCandidates(candidates)

	if b.topN > 0 && len(candidates) > b.topN {
		candidates = candidates[:b.topN]
	}

	return candidates
}
