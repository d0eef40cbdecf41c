package config

import (
	"fmt"

	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// Components are the strategy instances a document describes, in document order.
type Components struct {
	Selectors []selector.Selector
	Signals   []signal.Generator
	Targets   []target.Target
}

// Selector finds a selector by id.
func (c *Components) Selector(id string) (selector.Selector, bool) {
	for _, s := range c.Selectors {
		if s.ID() == id {
			return s, true
		}
	}

	return nil, false
}

// Signal finds a signal generator by id.
func (c *Components) Signal(id string) (signal.Generator, bool) {
	for _, s := range c.Signals {
		if s.ID() == id {
			return s, true
		}
	}

	return nil, false
}

// Target finds a target by id.
func (c *Components) Target(id string) (target.Target, bool) {
	for _, t := range c.Targets {
		if t.ID() == id {
			return t, true
		}
	}

	return nil, false
}

// Build validates c and instantiates every selector, signal and target. Supporting indicators
// are resolved against registry; a nil registry means the default one.
func Build(c *Config, registry indicator.IndicatorRegistry, log *logger.Logger) (*Components, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if registry == nil {
		registry = indicator.NewDefaultRegistry()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	var (
		fields errors.FieldErrors
		out    Components
	)

	for i, sc := range c.Selectors {
		if sel := buildSelector(fmt.Sprintf("selectors[%d]", i), sc, registry, log, &fields); sel != nil {
			out.Selectors = append(out.Selectors, sel)
		}
	}

	for i, sc := range c.Signals {
		if gen := buildSignal(fmt.Sprintf("signals[%d]", i), sc, log, &fields); gen != nil {
			out.Signals = append(out.Signals, gen)
		}
	}

	built := make(map[string]target.Target, len(c.Targets))

	for i, tc := range c.Targets {
		tgt, err := buildTarget(tc, built)
		if err != nil {
			fields = append(fields, &errors.FieldError{Field: fmt.Sprintf("targets[%d]", i), Reason: err.Error()})

			continue
		}

		built[tc.ID] = tgt
		out.Targets = append(out.Targets, tgt)
	}

	if len(fields) > 0 {
		return nil, errors.NewConfigError(fields...)
	}

	return &out, nil
}

func buildSelector(path string, sc SelectorConfig, registry indicator.IndicatorRegistry, log *logger.Logger, fields *errors.FieldErrors) selector.Selector {
	p := newParams(path, sc.Params, fields)
	before := len(*fields)

	var scorer selector.Scorer

	switch sc.Type {
	case SelectorTypeTrend:
		cfg := selector.DefaultTrendConfig()
		p.Int("lookback", &cfg.Lookback, 2)
		p.Float("atr_weight", &cfg.ATRWeight, nonNegative)
		p.Float("volume_weight", &cfg.VolumeWeight, nonNegative)
		p.Float("trend_weight", &cfg.TrendWeight, nonNegative)
		scorer = selector.NewTrendScorer(cfg)
	case SelectorTypeReversal:
		cfg := selector.DefaultReversalConfig()
		p.Int("lookback", &cfg.Lookback, 2)
		p.Float("min_breakthrough_pct", &cfg.MinBreakthroughPct, nonNegative)
		p.Float("max_pullback_pct", &cfg.MaxPullbackPct, nonNegative)
		p.Float("volume_decline_ratio", &cfg.VolumeDeclineRatio, positive)
		scorer = selector.NewReversalScorer(cfg)
	case SelectorTypeVolume:
		cfg := selector.DefaultVolumeConfig()
		p.Int("lookback", &cfg.Lookback, 2)
		p.Int("min_consecutive_decline", &cfg.MinConsecutiveDecline, 1)
		p.Float("min_decline_ratio", &cfg.MinDeclineRatio, fraction)
		p.Int("price_period", &cfg.PricePeriod, 2)
		p.Bool("check_support", &cfg.CheckSupport)
		p.Float("max_support_ratio", &cfg.MaxSupportRatio, nonNegative)
		scorer = selector.NewVolumeScorer(cfg)
	case SelectorTypeMACD:
		cfg := selector.DefaultMACDConfig()
		p.Int("fast", &cfg.Fast, 1)
		p.Int("slow", &cfg.Slow, 2)
		p.Int("signal", &cfg.Signal, 1)

		if cfg.Fast >= cfg.Slow {
			p.fail("fast", fmt.Sprintf("must be < slow (%d)", cfg.Slow))
		}

		scorer = selector.NewMACDScorer(cfg)
	case SelectorTypeRSI:
		cfg := selector.DefaultRSIConfig()
		p.Int("period", &cfg.Period, 1)
		p.Float("oversold", &cfg.Oversold, func(v float64) string {
			if v <= 0 || v >= 100 {
				return "must be in (0, 100)"
			}

			return ""
		})
		scorer = selector.NewRSIScorer(cfg)
	}

	p.Finish()

	var supporting []indicator.Indicator

	for j, name := range sc.Indicators {
		ind, err := registry.GetIndicator(name)
		if err != nil {
			*fields = append(*fields, &errors.FieldError{
				Field:  fmt.Sprintf("%s.indicators[%d]", path, j),
				Reason: fmt.Sprintf("unknown indicator %q", name),
			})

			continue
		}

		supporting = append(supporting, ind)
	}

	if len(*fields) > before || scorer == nil {
		return nil
	}

	return selector.New(sc.ID, sc.TopN.TakeOr(DefaultTopN), scorer, selector.WithIndicators(supporting...), selector.WithLogger(log))
}

func buildSignal(path string, sc SignalConfig, log *logger.Logger, fields *errors.FieldErrors) signal.Generator {
	p := newParams(path, sc.Params, fields)
	before := len(*fields)
	opts := []signal.Option{signal.WithLogger(log)}

	var gen signal.Generator

	switch sc.Type {
	case SignalTypeClose, SignalTypeOpen, SignalTypeLimit:
		gen = signal.New(sc.ID, priceRule(string(sc.Type), 0, p), nil, opts...)
	case SignalTypeVolumeSurge:
		cfg := signal.DefaultVolumeSurgeConfig()
		p.Float("ratio", &cfg.Ratio, positive)
		p.Int("window", &cfg.Window, 1)
		p.Bool("price_filter", &cfg.PriceFilter)
		gen = signal.NewVolumeSurge(sc.ID, cfg, priceRule(sc.Price, 0, p), opts...)
	case SignalTypeVolumeDecline:
		cfg := signal.DefaultVolumeDeclineConfig()
		p.Int("days", &cfg.Days, 1)
		p.Float("ratio", &cfg.Ratio, positive)
		p.Bool("price_filter", &cfg.PriceFilter)
		gen = signal.NewVolumeDecline(sc.ID, cfg, priceRule(sc.Price, 0, p), opts...)
	case SignalTypePattern:
		cfg := signal.DefaultBottomReverseConfig()
		p.Bool("quiet_reversal", &cfg.QuietReversal)
		p.Float("quiet_volume_ratio", &cfg.QuietVolumeRatio, positive)

		price := sc.Price
		if price == "" {
			price = string(SignalTypeOpen)
		}

		gen = signal.NewPattern(sc.ID, cfg, priceRule(price, signal.DefaultPatternBufferPct, p), opts...)
	}

	p.Finish()

	if len(*fields) > before {
		return nil
	}

	return gen
}

// priceRule builds the entry rule named by price (close when empty) and binds its parameters.
func priceRule(price string, defaultBuffer float64, p *params) signal.PriceRule {
	switch SignalType(price) {
	case SignalTypeOpen:
		rule := signal.OpenRule{BufferPct: defaultBuffer}
		p.Float("buffer_pct", &rule.BufferPct, nonNegative)

		return rule
	case SignalTypeLimit:
		rule := signal.LimitRule{Discount: signal.DefaultLimitDiscount}
		p.Float("discount", &rule.Discount, fraction)

		return rule
	default:
		return signal.CloseRule{}
	}
}

func buildTarget(tc TargetConfig, built map[string]target.Target) (target.Target, error) {
	switch tc.Type {
	case TargetTypeReturn:
		return target.NewReturnTarget(tc.ID, target.ReturnConfig{
			TargetReturn:     tc.TargetReturn,
			StopLoss:         tc.StopLoss,
			Days:             tc.Days,
			FailureTolerance: tc.FailureTolerance.TakeOr(tc.StopLoss),
			TargetFirst:      tc.TargetFirst,
		}), nil
	case TargetTypeGuard:
		return target.NewGuardTarget(tc.ID, target.GuardConfig{
			StopLoss:         tc.StopLoss,
			Days:             tc.Days,
			FailureTolerance: tc.FailureTolerance.TakeOr(tc.StopLoss),
		}), nil
	case TargetTypeCombined:
		parts := make([]target.Target, 0, len(tc.Targets))
		for _, ref := range tc.Targets {
			part, ok := built[ref]
			if !ok {
				return nil, errors.Newf(errors.ErrCodeUnsupportedTarget, "unknown constituent %q", ref)
			}

			parts = append(parts, part)
		}

		combined, err := target.NewCombinedTarget(tc.ID, parts...)
		if err != nil {
			return nil, err
		}

		return combined, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedTarget, "unsupported target type %q", tc.Type)
	}
}
