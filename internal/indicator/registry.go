package indicator

import (
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// Indicator computes one value from the bars visible on an evaluation day.
type Indicator interface {
	Name() types.IndicatorType
	Value(h types.History) (float64, error)
}

type funcIndicator struct {
	name types.IndicatorType
	fn   func(types.History) (float64, error)
}

// NewIndicator adapts a function into an Indicator.
func NewIndicator(name types.IndicatorType, fn func(types.History) (float64, error)) Indicator {
	return &funcIndicator{name: name, fn: fn}
}

func (f *funcIndicator) Name() types.IndicatorType { return f.name }

func (f *funcIndicator) Value(h types.History) (float64, error) { return f.fn(h) }

// IndicatorRegistry resolves indicator names to implementations.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name types.IndicatorType) (Indicator, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
}

// IndicatorRegistryV1 is a concurrency-safe map-backed registry.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorType]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates an empty registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{indicators: make(map[types.IndicatorType]Indicator)}
}

// NewDefaultRegistry returns a registry holding every built-in indicator at its default parameters.
func NewDefaultRegistry() IndicatorRegistry {
	r := NewIndicatorRegistry()
	for _, ind := range defaultIndicators() {
		// names are unique, so registration cannot fail
		_ = r.RegisterIndicator(ind)
	}

	return r
}

func defaultIndicators() []Indicator {
	return []Indicator{
		NewIndicator(types.IndicatorTypeRSI, func(h types.History) (float64, error) {
			return RSI(h.Closes(), DefaultRSIPeriod)
		}),
		NewIndicator(types.IndicatorTypeATR, func(h types.History) (float64, error) {
			return ATR(h.Bars(), DefaultATRPeriod)
		}),
		NewIndicator(types.IndicatorTypeMA, func(h types.History) (float64, error) {
			return SMA(h.Closes(), 20)
		}),
		NewIndicator(types.IndicatorTypeEMA, func(h types.History) (float64, error) {
			return EMA(h.Closes(), 20)
		}),
		NewIndicator(types.IndicatorTypeMACD, func(h types.History) (float64, error) {
			v, err := MACD(h.Closes(), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

			return v.MACD, err
		}),
		NewIndicator(types.IndicatorTypeMACDHistogram, func(h types.History) (float64, error) {
			v, err := MACD(h.Closes(), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

			return v.Histogram, err
		}),
		NewIndicator(types.IndicatorTypeBollingerLower, func(h types.History) (float64, error) {
			b, err := BollingerBands(h.Closes(), DefaultBollingerPeriod, DefaultBollingerMultiplier)

			return b.Lower, err
		}),
		NewIndicator(types.IndicatorTypeBollingerUpper, func(h types.History) (float64, error) {
			b, err := BollingerBands(h.Closes(), DefaultBollingerPeriod, DefaultBollingerMultiplier)

			return b.Upper, err
		}),
		NewIndicator(types.IndicatorTypeKeltnerUpper, func(h types.History) (float64, error) {
			b, err := KeltnerChannel(h.Bars(), DefaultKeltnerEMAPeriod, DefaultKeltnerATRPeriod, DefaultKeltnerMultiplier)

			return b.Upper, err
		}),
		NewIndicator(types.IndicatorTypeKeltnerLower, func(h types.History) (float64, error) {
			b, err := KeltnerChannel(h.Bars(), DefaultKeltnerEMAPeriod, DefaultKeltnerATRPeriod, DefaultKeltnerMultiplier)

			return b.Lower, err
		}),
		NewIndicator(types.IndicatorTypeStochasticK, func(h types.History) (float64, error) {
			v, err := Stochastic(h.Bars(), DefaultStochasticK, DefaultStochasticD)

			return v.K, err
		}),
		NewIndicator(types.IndicatorTypeMomentum, func(h types.History) (float64, error) {
			return Momentum(h.Closes(), 10)
		}),
		NewIndicator(types.IndicatorTypeRangeFilter, func(h types.History) (float64, error) {
			v, err := RangeFilter(h.Closes(), DefaultRangeFilterPeriod, DefaultRangeFilterMultiplier)

			return v.Filter, err
		}),
		NewIndicator(types.IndicatorTypeWaddahTrend, func(h types.History) (float64, error) {
			v, err := WaddahAttar(h.Bars(), DefaultWaddahFast, DefaultWaddahSlow, DefaultWaddahSignal, DefaultWaddahATR, DefaultWaddahMultiplier)

			return v.Trend, err
		}),
		NewIndicator(types.IndicatorTypeWaddahBlast, func(h types.History) (float64, error) {
			v, err := WaddahAttar(h.Bars(), DefaultWaddahFast, DefaultWaddahSlow, DefaultWaddahSignal, DefaultWaddahATR, DefaultWaddahMultiplier)

			return v.Explosion, err
		}),
	}
}

// RegisterIndicator adds an indicator; names must be unique.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeDuplicateID, "indicator %s already registered", name)
	}

	r.indicators[name] = indicator

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	return indicator, nil
}

// ListIndicators returns the registered names in sorted order.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	delete(r.indicators, name)

	return nil
}
