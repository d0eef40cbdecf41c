package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// VolumeSurgeConfig triggers when today's volume is Ratio times the average of the previous Window days.
type VolumeSurgeConfig struct {
	Ratio       float64
	Window      int
	PriceFilter bool
}

func DefaultVolumeSurgeConfig() VolumeSurgeConfig {
	return VolumeSurgeConfig{Ratio: 2.0, Window: 5, PriceFilter: true}
}

// VolumeSurge is the volume breakout predicate. With PriceFilter the close must also be up.
type VolumeSurge struct {
	cfg VolumeSurgeConfig
}

func NewVolumeSurgePredicate(cfg VolumeSurgeConfig) *VolumeSurge {
	return &VolumeSurge{cfg: cfg}
}

func (v *VolumeSurge) MinHistory() int { return v.cfg.Window + 1 }

func (v *VolumeSurge) Match(h types.History) (string, bool) {
	today := h.Last()

	avg := 0.0
	for i := 1; i <= v.cfg.Window; i++ {
		b, _ := h.Ago(i)
		avg += b.Volume
	}

	avg /= float64(v.cfg.Window)

	if avg <= 0 || today.Volume < avg*v.cfg.Ratio {
		return "", false
	}

	if v.cfg.PriceFilter {
		if prev, _ := h.Ago(1); today.Close <= prev.Close {
			return "", false
		}
	}

	return fmt.Sprintf("volume %.1fx %d-day average", today.Volume/avg, v.cfg.Window), true
}

// VolumeDeclineConfig triggers after Days consecutive sessions each trading at most Ratio of
// the previous session's volume.
type VolumeDeclineConfig struct {
	Days        int
	Ratio       float64
	PriceFilter bool
}

func DefaultVolumeDeclineConfig() VolumeDeclineConfig {
	return VolumeDeclineConfig{Days: 3, Ratio: 0.8, PriceFilter: true}
}

// VolumeDecline is the drying-volume predicate. With PriceFilter the close must be at least the
// close Days sessions ago.
type VolumeDecline struct {
	cfg VolumeDeclineConfig
}

func NewVolumeDeclinePredicate(cfg VolumeDeclineConfig) *VolumeDecline {
	return &VolumeDecline{cfg: cfg}
}

func (v *VolumeDecline) MinHistory() int { return v.cfg.Days + 1 }

func (v *VolumeDecline) Match(h types.History) (string, bool) {
	for i := 0; i < v.cfg.Days; i++ {
		cur, _ := h.Ago(i)
		prev, _ := h.Ago(i + 1)

		if cur.Volume > prev.Volume*v.cfg.Ratio {
			return "", false
		}
	}

	if v.cfg.PriceFilter {
		past, _ := h.Ago(v.cfg.Days)
		if h.Last().Close < past.Close {
			return "", false
		}
	}

	return fmt.Sprintf("volume declined %d sessions", v.cfg.Days), true
}

// NewVolumeSurge gates a price rule behind the volume surge predicate.
func NewVolumeSurge(id string, cfg VolumeSurgeConfig, rule PriceRule, opts ...Option) *Base {
	return New(id, rule, NewVolumeSurgePredicate(cfg), opts...)
}

// NewVolumeDecline gates a price rule behind the volume decline predicate.
func NewVolumeDecline(id string, cfg VolumeDeclineConfig, rule PriceRule, opts ...Option) *Base {
	return New(id, rule, NewVolumeDeclinePredicate(cfg), opts...)
}
