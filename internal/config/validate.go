package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-scorecard/internal/version"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	return validate
}

// Validate checks the document and reports every problem with its field path.
func (c *Config) Validate() error {
	var fields errors.FieldErrors

	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
		}

		for _, fe := range verrs {
			fields = append(fields, &errors.FieldError{Field: fieldPath(fe.Namespace()), Reason: reason(fe)})
		}
	}

	if c.Version != "" {
		if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
			fields = append(fields, &errors.FieldError{Field: "version", Reason: err.Error()})
		}
	}

	if c.Backtest.Weights.IsSome() {
		w := c.Backtest.Weights.Unwrap()
		if w.Success < 0 || w.Return < 0 || w.StopLoss < 0 {
			fields = append(fields, &errors.FieldError{Field: "backtest.weights", Reason: "weights must be >= 0"})
		}
	}

	if c.Backtest.BestN.IsSome() && c.Backtest.BestN.Unwrap() < 0 {
		fields = append(fields, &errors.FieldError{Field: "backtest.best_n", Reason: "must be >= 0"})
	}

	for i, s := range c.Selectors {
		if s.TopN.IsSome() && s.TopN.Unwrap() < 0 {
			fields = append(fields, &errors.FieldError{Field: fmt.Sprintf("selectors[%d].top_n", i), Reason: "must be >= 0"})
		}
	}

	if start, end := c.Data.Start, c.Data.End; start.IsSome() && end.IsSome() && end.Unwrap().Before(start.Unwrap()) {
		fields = append(fields, &errors.FieldError{Field: "data.end", Reason: "must not be before data.start"})
	}

	fields = append(fields, duplicateIDs("selectors", len(c.Selectors), func(i int) string { return c.Selectors[i].ID })...)
	fields = append(fields, duplicateIDs("signals", len(c.Signals), func(i int) string { return c.Signals[i].ID })...)
	fields = append(fields, duplicateIDs("targets", len(c.Targets), func(i int) string { return c.Targets[i].ID })...)
	fields = append(fields, c.validateTargets()...)

	if len(fields) > 0 {
		return errors.NewConfigError(fields...)
	}

	return nil
}

// validateTargets applies the per-type rules the struct tags cannot express.
func (c *Config) validateTargets() errors.FieldErrors {
	var fields errors.FieldErrors

	seen := make(map[string]bool, len(c.Targets))

	for i, t := range c.Targets {
		path := fmt.Sprintf("targets[%d]", i)
		add := func(field, reason string) {
			fields = append(fields, &errors.FieldError{Field: path + "." + field, Reason: reason})
		}

		switch t.Type {
		case TargetTypeReturn, TargetTypeGuard:
			if t.Type == TargetTypeReturn && t.TargetReturn <= 0 {
				add("target_return", "must be > 0")
			}

			if t.StopLoss <= 0 {
				add("stop_loss", "must be > 0")
			}

			if t.Days < 1 {
				add("days", "must be >= 1")
			}

			if t.FailureTolerance.IsSome() && t.FailureTolerance.Unwrap() < 0 {
				add("failure_tolerance", "must be >= 0")
			}

			if len(t.Targets) > 0 {
				add("targets", "only combined targets have constituents")
			}
		case TargetTypeCombined:
			if len(t.Targets) < 2 {
				add("targets", "combined target needs at least 2 constituents")
			}

			for j, ref := range t.Targets {
				if !seen[ref] {
					add(fmt.Sprintf("targets[%d]", j), fmt.Sprintf("unknown target %q (constituents must be declared earlier)", ref))
				}
			}
		}

		seen[t.ID] = true
	}

	return fields
}

func duplicateIDs(section string, n int, id func(int) string) errors.FieldErrors {
	var fields errors.FieldErrors

	seen := make(map[string]int, n)

	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			continue
		}

		if first, ok := seen[v]; ok {
			fields = append(fields, &errors.FieldError{
				Field:  fmt.Sprintf("%s[%d].id", section, i),
				Reason: fmt.Sprintf("duplicate id %q (first used by %s[%d])", v, section, first),
			})

			continue
		}

		seen[v] = i
	}

	return fields
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "lt":
		return "must be < " + fe.Param()
	case "min":
		return fmt.Sprintf("must have at least %s items", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
