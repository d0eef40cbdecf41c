package selector

import (
	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// VolumeConfig parameterizes the volume-decline selector.
// MinDeclineRatio is the minimum day-over-day shrink, 0.1 meaning at least 10% less volume.
type VolumeConfig struct {
	Lookback              int
	MinConsecutiveDecline int
	MinDeclineRatio       float64
	PricePeriod           int
	CheckSupport          bool
	MaxSupportRatio       float64
}

func DefaultVolumeConfig() VolumeConfig {
	return VolumeConfig{
		Lookback:              30,
		MinConsecutiveDecline: 3,
		MinDeclineRatio:       0.1,
		PricePeriod:           20,
		CheckSupport:          true,
		MaxSupportRatio:       0.05,
	}
}

// VolumeScorer picks symbols whose volume has dried up for several days while price sits near
// support. Candidates further below resistance score higher.
type VolumeScorer struct {
	cfg VolumeConfig
}

func NewVolumeScorer(cfg VolumeConfig) *VolumeScorer {
	return &VolumeScorer{cfg: cfg}
}

func (v *VolumeScorer) MinHistory() int {
	return max(v.cfg.Lookback, v.cfg.PricePeriod) + 1
}

func (v *VolumeScorer) Score(h types.History) (Score, bool) {
	if !v.volumeDeclining(h) {
		return Score{}, false
	}

	window := h.Tail(v.cfg.PricePeriod)
	last := h.Last()

	if last.Close <= 0 {
		return Score{}, false
	}

	support, resistance := window[0].Low, window[0].High
	for _, b := range window[1:] {
		support = min(support, b.Low)
		resistance = max(resistance, b.High)
	}

	if v.cfg.CheckSupport && (last.Close-support)/last.Close > v.cfg.MaxSupportRatio {
		return Score{}, false
	}

	distance := 0.0
	if resistance > last.Close {
		distance = (resistance - last.Close) / last.Close
	}

	return Score{
		Value: distance,
		Indicators: map[types.IndicatorType]float64{
			types.IndicatorTypeSupport:    support,
			types.IndicatorTypeResistance: resistance,
		},
	}, true
}

// volumeDeclining counts consecutive shrinking days backward from the evaluation day.
func (v *VolumeScorer) volumeDeclining(h types.History) bool {
	streak := 0

	for i := 0; i < v.cfg.Lookback-1; i++ {
		cur, ok := h.Ago(i)
		if !ok {
			return false
		}

		prev, ok := h.Ago(i + 1)
		if !ok || prev.Volume <= 0 || cur.Volume/prev.Volume > 1-v.cfg.MinDeclineRatio {
			return false
		}

		streak++
		if streak >= v.cfg.MinConsecutiveDecline {
			return true
		}
	}

	return false
}
