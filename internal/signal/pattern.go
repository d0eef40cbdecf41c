package signal

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// BottomReverseConfig parameterizes the bottom reversal pattern.
type BottomReverseConfig struct {
	// QuietReversal also accepts an up day on volume below QuietVolumeRatio of the previous day.
	QuietReversal    bool
	QuietVolumeRatio float64
}

func DefaultBottomReverseConfig() BottomReverseConfig {
	return BottomReverseConfig{QuietReversal: true, QuietVolumeRatio: 0.9}
}

// BottomReverse matches a day that opens below the previous low and closes above the previous high.
type BottomReverse struct {
	cfg BottomReverseConfig
}

func NewBottomReversePredicate(cfg BottomReverseConfig) *BottomReverse {
	return &BottomReverse{cfg: cfg}
}

func (b *BottomReverse) MinHistory() int { return 2 }

func (b *BottomReverse) Match(h types.History) (string, bool) {
	today := h.Last()
	yesterday, _ := h.Ago(1)

	if today.Open < yesterday.Low && today.Close > yesterday.High {
		return "bottom reverse", true
	}

	if b.cfg.QuietReversal && today.Close > today.Open && today.Volume < yesterday.Volume*b.cfg.QuietVolumeRatio {
		return "quiet reversal", true
	}

	return "", false
}

// DefaultPatternBufferPct is the premium over the next open paid by the pattern signal.
const DefaultPatternBufferPct = 1.0

// NewPattern gates a price rule behind the bottom reversal pattern.
func NewPattern(id string, cfg BottomReverseConfig, rule PriceRule, opts ...Option) *Base {
	return New(id, rule, NewBottomReversePredicate(cfg), opts...)
}
