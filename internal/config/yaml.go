package config

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"gopkg.in/yaml.v3"
)

// Optional fields travel through YAML as pointers.

type backtestYAML struct {
	BackDays    int                `yaml:"back_days"`
	Offsets     []int              `yaml:"offsets,omitempty"`
	Parallelism int                `yaml:"parallelism"`
	MinTrades   int                `yaml:"min_trades"`
	BestN       *int               `yaml:"best_n,omitempty"`
	Weights     *scorecard.Weights `yaml:"weights,omitempty"`
}

func (c *BacktestConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw backtestYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = BacktestConfig{
		BackDays:    raw.BackDays,
		Offsets:     raw.Offsets,
		Parallelism: raw.Parallelism,
		MinTrades:   raw.MinTrades,
		BestN:       fromPtr(raw.BestN),
		Weights:     fromPtr(raw.Weights),
	}

	return nil
}

func (c BacktestConfig) MarshalYAML() (any, error) {
	return backtestYAML{
		BackDays:    c.BackDays,
		Offsets:     c.Offsets,
		Parallelism: c.Parallelism,
		MinTrades:   c.MinTrades,
		BestN:       toPtr(c.BestN),
		Weights:     toPtr(c.Weights),
	}, nil
}

type dataYAML struct {
	Path            string     `yaml:"path"`
	MinBars         int        `yaml:"min_bars"`
	ExcludePrefixes []string   `yaml:"exclude_prefixes"`
	Start           *time.Time `yaml:"start,omitempty"`
	End             *time.Time `yaml:"end,omitempty"`
}

func (c *DataConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw dataYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = DataConfig{
		Path:            raw.Path,
		MinBars:         raw.MinBars,
		ExcludePrefixes: raw.ExcludePrefixes,
		Start:           fromPtr(raw.Start),
		End:             fromPtr(raw.End),
	}

	return nil
}

func (c DataConfig) MarshalYAML() (any, error) {
	return dataYAML{
		Path:            c.Path,
		MinBars:         c.MinBars,
		ExcludePrefixes: c.ExcludePrefixes,
		Start:           toPtr(c.Start),
		End:             toPtr(c.End),
	}, nil
}

type selectorYAML struct {
	ID         string                `yaml:"id"`
	Type       SelectorType          `yaml:"type"`
	TopN       *int                  `yaml:"top_n,omitempty"`
	Indicators []types.IndicatorType `yaml:"indicators,omitempty"`
	Params     map[string]any        `yaml:"params,omitempty"`
}

func (c *SelectorConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw selectorYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = SelectorConfig{
		ID:         raw.ID,
		Type:       raw.Type,
		TopN:       fromPtr(raw.TopN),
		Indicators: raw.Indicators,
		Params:     raw.Params,
	}

	return nil
}

func (c SelectorConfig) MarshalYAML() (any, error) {
	return selectorYAML{
		ID:         c.ID,
		Type:       c.Type,
		TopN:       toPtr(c.TopN),
		Indicators: c.Indicators,
		Params:     c.Params,
	}, nil
}

type targetYAML struct {
	ID               string     `yaml:"id"`
	Type             TargetType `yaml:"type"`
	TargetReturn     float64    `yaml:"target_return,omitempty"`
	StopLoss         float64    `yaml:"stop_loss,omitempty"`
	Days             int        `yaml:"days,omitempty"`
	FailureTolerance *float64   `yaml:"failure_tolerance,omitempty"`
	TargetFirst      bool       `yaml:"target_first,omitempty"`
	Targets          []string   `yaml:"targets,omitempty"`
}

func (c *TargetConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw targetYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = TargetConfig{
		ID:               raw.ID,
		Type:             raw.Type,
		TargetReturn:     raw.TargetReturn,
		StopLoss:         raw.StopLoss,
		Days:             raw.Days,
		FailureTolerance: fromPtr(raw.FailureTolerance),
		TargetFirst:      raw.TargetFirst,
		Targets:          raw.Targets,
	}

	return nil
}

func (c TargetConfig) MarshalYAML() (any, error) {
	return targetYAML{
		ID:               c.ID,
		Type:             c.Type,
		TargetReturn:     c.TargetReturn,
		StopLoss:         c.StopLoss,
		Days:             c.Days,
		FailureTolerance: toPtr(c.FailureTolerance),
		TargetFirst:      c.TargetFirst,
		Targets:          c.Targets,
	}, nil
}

func fromPtr[T any](v *T) optional.Option[T] {
	if v == nil {
		return optional.None[T]()
	}

	return optional.Some(*v)
}

func toPtr[T any](o optional.Option[T]) *T {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}
