package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// PriceRule fills an entry on the bar after the evaluation day.
type PriceRule interface {
	Name() string
	// Fill returns the entry price, or false when the order would not execute.
	Fill(evaluation, entry types.Bar) (float64, bool)
	// Quote is the intended entry price known on the evaluation day, for recommendations.
	// Rules that depend on the entry bar fall back to the evaluation close.
	Quote(evaluation types.Bar) float64
}

// CloseRule buys at the entry day's close.
type CloseRule struct{}

func (CloseRule) Name() string { return "close" }

func (CloseRule) Fill(_, entry types.Bar) (float64, bool) { return entry.Close, true }

func (CloseRule) Quote(evaluation types.Bar) float64 { return evaluation.Close }

// OpenRule buys at the entry day's open, optionally paying BufferPct percent above it.
type OpenRule struct {
	BufferPct float64
}

func (r OpenRule) Name() string {
	if r.BufferPct == 0 {
		return "open"
	}

	return fmt.Sprintf("open+%.2f%%", r.BufferPct)
}

func (r OpenRule) Fill(_, entry types.Bar) (float64, bool) {
	return entry.Open * (1 + r.BufferPct/100), true
}

func (r OpenRule) Quote(evaluation types.Bar) float64 {
	return evaluation.Close * (1 + r.BufferPct/100)
}

// LimitRule places a limit order Discount below the evaluation close. It fills only if the entry
// day trades down to the limit, at the limit or a better open.
type LimitRule struct {
	Discount float64
}

// DefaultLimitDiscount buys at 98% of the previous close.
const DefaultLimitDiscount = 0.02

func (r LimitRule) Name() string { return fmt.Sprintf("limit-%.2f%%", r.Discount*100) }

func (r LimitRule) Fill(evaluation, entry types.Bar) (float64, bool) {
	limit := r.Quote(evaluation)
	if entry.Low > limit {
		return 0, false
	}

	return min(limit, entry.Open), true
}

func (r LimitRule) Quote(evaluation types.Bar) float64 {
	return evaluation.Close * (1 - r.Discount)
}

// NewClose buys every candidate at the next close.
func NewClose(id string, opts ...Option) *Base {
	return New(id, CloseRule{}, nil, opts...)
}

// NewOpen buys every candidate at the next open.
func NewOpen(id string, opts ...Option) *Base {
	return New(id, OpenRule{}, nil, opts...)
}

// NewLimit buys every candidate whose next day trades down to close*(1-discount).
func NewLimit(id string, discount float64, opts ...Option) *Base {
	return New(id, LimitRule{Discount: discount}, nil, opts...)
}
