package types

import (
	"slices"
	"time"

	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// Bar is one daily OHLCV record.
type Bar struct {
	Date   time.Time `json:"date" yaml:"date"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

// EvaluationIndex is an offset counted backward from the most recent bar of a series.
// Offset 0 is the last bar.
type EvaluationIndex int

// Series is the daily history of one symbol, oldest bar first.
type Series struct {
	Symbol string
	Bars   []Bar
}

// NewSeries validates that dates strictly increase and returns the series.
func NewSeries(symbol string, bars []Bar) (Series, error) {
	if symbol == "" {
		return Series{}, errors.New(errors.ErrCodeInvalidSeries, "series symbol is empty")
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return Series{}, errors.Newf(errors.ErrCodeInvalidSeries,
				"series %s: bar %d (%s) is not after bar %d (%s)",
				symbol, i, bars[i].Date.Format(time.DateOnly), i-1, bars[i-1].Date.Format(time.DateOnly))
		}
	}

	return Series{Symbol: symbol, Bars: bars}, nil
}

// Len returns the number of bars.
func (s Series) Len() int {
	return len(s.Bars)
}

// EvaluationDay maps an offset to the position of its evaluation day.
// The second result is false when the series is too short for the offset.
func (s Series) EvaluationDay(k EvaluationIndex) (int, bool) {
	if k < 0 {
		return 0, false
	}

	e := len(s.Bars) - 1 - int(k)
	if e < 0 {
		return 0, false
	}

	return e, true
}

// History returns the bars visible on the evaluation day of offset k.
func (s Series) History(k EvaluationIndex) (History, bool) {
	e, ok := s.EvaluationDay(k)
	if !ok {
		return History{}, false
	}

	return History{symbol: s.Symbol, index: k, bars: s.Bars[: e+1 : e+1]}, true
}

// Future returns the bars strictly after position e, up to n of them.
// It is reserved for entry fills and exit walks.
func (s Series) Future(e, n int) []Bar {
	start := e + 1
	if start >= len(s.Bars) || n <= 0 {
		return nil
	}

	end := min(start+n, len(s.Bars))

	return s.Bars[start:end:end]
}

// History is a read-only view of a series truncated at the evaluation day.
// Strategy code reads bars only through it, so it can never see the future.
type History struct {
	symbol string
	index  EvaluationIndex
	bars   []Bar
}

// NewHistory wraps bars that are already truncated at the evaluation day.
func NewHistory(symbol string, index EvaluationIndex, bars []Bar) History {
	return History{symbol: symbol, index: index, bars: bars[:len(bars):len(bars)]}
}

func (h History) Symbol() string { return h.symbol }

func (h History) Index() EvaluationIndex { return h.index }

// Len returns the number of visible bars. The evaluation day is position Len()-1.
func (h History) Len() int { return len(h.bars) }

// Bars returns the visible bars. The returned slice has no spare capacity.
func (h History) Bars() []Bar { return h.bars }

// Last returns the evaluation-day bar.
func (h History) Last() Bar { return h.bars[len(h.bars)-1] }

// Ago returns the bar n days before the evaluation day; Ago(0) is Last().
func (h History) Ago(n int) (Bar, bool) {
	i := len(h.bars) - 1 - n
	if n < 0 || i < 0 {
		return Bar{}, false
	}

	return h.bars[i], true
}

// Tail returns the last n visible bars, or all of them if fewer exist.
func (h History) Tail(n int) []Bar {
	if n >= len(h.bars) {
		return h.bars
	}

	return h.bars[len(h.bars)-n:]
}

// Closes returns the closing prices of the visible bars.
func (h History) Closes() []float64 {
	return Closes(h.bars)
}

// Volumes returns the volumes of the visible bars.
func (h History) Volumes() []float64 {
	out := make([]float64, len(h.bars))
	for i, b := range h.bars {
		out[i] = b.Volume
	}

	return out
}

// Closes extracts closing prices from bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}

	return out
}

// Universe is the read-only set of series a run evaluates. Symbols iterate in sorted order.
type Universe struct {
	series  map[string]Series
	symbols []string
}

// NewUniverse builds a universe. Duplicate symbols are rejected.
func NewUniverse(series ...Series) (*Universe, error) {
	u := &Universe{series: make(map[string]Series, len(series))}
	for _, s := range series {
		if _, dup := u.series[s.Symbol]; dup {
			return nil, errors.Newf(errors.ErrCodeDuplicateID, "duplicate series for symbol %s", s.Symbol)
		}

		u.series[s.Symbol] = s
		u.symbols = append(u.symbols, s.Symbol)
	}

	slices.Sort(u.symbols)

	return u, nil
}

// Symbols returns a copy of the sorted symbol list.
func (u *Universe) Symbols() []string {
	return slices.Clone(u.symbols)
}

// Series looks up one symbol.
func (u *Universe) Series(symbol string) (Series, bool) {
	s, ok := u.series[symbol]

	return s, ok
}

// Len returns the number of symbols.
func (u *Universe) Len() int {
	return len(u.symbols)
}

// Each calls fn for every series in symbol order.
func (u *Universe) Each(fn func(Series)) {
	for _, sym := range u.symbols {
		fn(u.series[sym])
	}
}

// LatestDate returns the most recent bar date across all series.
func (u *Universe) LatestDate() time.Time {
	var latest time.Time

	for _, s := range u.series {
		if n := len(s.Bars); n > 0 && s.Bars[n-1].Date.After(latest) {
			latest = s.Bars[n-1].Date
		}
	}

	return latest
}
