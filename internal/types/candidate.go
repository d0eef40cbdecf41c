package types

import (
	"cmp"
	"slices"
)

// Candidate is a symbol a selector picked on an evaluation day.
type Candidate struct {
	Symbol          string                    `json:"symbol" yaml:"symbol"`
	Score           float64                   `json:"score" yaml:"score"`
	Indicators      map[IndicatorType]float64 `json:"indicators,omitempty" yaml:"indicators,omitempty"`
	EvaluationIndex EvaluationIndex           `json:"evaluation_index" yaml:"evaluation_index"`
}

// CompareCandidates orders by score descending, then symbol ascending.
func CompareCandidates(a, b Candidate) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}

	return cmp.Compare(a.Symbol, b.Symbol)
}

// SortCandidates sorts candidates in place by CompareCandidates.
func SortCandidates(candidates []Candidate) {
	slices.SortFunc(candidates, CompareCandidates)
}
