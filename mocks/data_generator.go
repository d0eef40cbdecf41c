package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-scorecard/internal/types"
)

// DataGenerator generates synthetic daily bars for tests, benchmarks and the generate command.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how daily bars are generated.
type GeneratorConfig struct {
	// Symbol is the ticker, e.g. "600000"
	Symbol string
	// StartDate is the first trading day
	StartDate time.Time
	// Count is the number of trading days to generate
	Count int
	// SkipWeekends leaves Saturdays and Sundays out of the calendar
	SkipWeekends bool
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility is the daily standard deviation of returns (0.02 = 2%)
	Volatility float64
	// Trend is the total drift over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average daily volume
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: one year of trading days.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Count:          250,
		SkipWeekends:   true,
		InitialPrice:   20.0,
		Volatility:     0.02,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a daily series following geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) types.Series {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	date := config.StartDate

	for i := 0; i < config.Count; i++ {
		date = nextTradingDay(date, i == 0, config.SkipWeekends)
		open := currentPrice

		// Box-Muller transform for a standard normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		close := open * (1 + config.Volatility*z + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := g.rng.Float64() * config.Volatility * open * 0.5
		lowExtension := g.rng.Float64() * config.Volatility * open * 0.5

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension

		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Date:   date,
			Open:   roundToDecimals(open, 2),
			High:   roundToDecimals(high, 2),
			Low:    roundToDecimals(low, 2),
			Close:  roundToDecimals(close, 2),
			Volume: math.Round(volume),
		}

		currentPrice = close
	}

	return types.Series{Symbol: config.Symbol, Bars: bars}
}

// GenerateUniverse generates one series per symbol with slightly varied price and volatility.
func (g *DataGenerator) GenerateUniverse(symbols []string, baseConfig GeneratorConfig) *types.Universe {
	series := make([]types.Series, 0, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		series = append(series, g.Generate(config))
	}

	// generated symbols are caller-provided; duplicates are a test bug
	u, err := types.NewUniverse(series...)
	if err != nil {
		panic(err)
	}

	return u
}

// LinearSeries returns count daily bars whose close moves by step each day. Each bar opens at
// the previous close and its high/low extend spread beyond the open/close range.
func LinearSeries(symbol string, count int, start, step, spread float64) types.Series {
	bars := make([]types.Bar, count)
	date := DefaultConfig().StartDate
	prevClose := start

	for i := 0; i < count; i++ {
		closePrice := start + step*float64(i)
		open := prevClose

		bars[i] = types.Bar{
			Date:   date.AddDate(0, 0, i),
			Open:   open,
			High:   math.Max(open, closePrice) + spread,
			Low:    math.Min(open, closePrice) - spread,
			Close:  closePrice,
			Volume: 1_000_000,
		}
		prevClose = closePrice
	}

	return types.Series{Symbol: symbol, Bars: bars}
}

// Generate250 is a convenience function for one year of default daily bars.
func Generate250(symbol string) types.Series {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

func nextTradingDay(date time.Time, first, skipWeekends bool) time.Time {
	if !first {
		date = date.AddDate(0, 0, 1)
	}

	for skipWeekends && (date.Weekday() == time.Saturday || date.Weekday() == time.Sunday) {
		date = date.AddDate(0, 0, 1)
	}

	return date
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
