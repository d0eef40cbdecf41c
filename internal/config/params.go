package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// params binds a variant's free-form parameter map onto its typed config, collecting a field
// error for every bad or unknown key.
type params struct {
	path   string
	values map[string]any
	used   map[string]bool
	errs   *errors.FieldErrors
}

func newParams(path string, values map[string]any, errs *errors.FieldErrors) *params {
	return &params{path: path, values: values, used: make(map[string]bool, len(values)), errs: errs}
}

func (p *params) fail(key, reason string) {
	*p.errs = append(*p.errs, &errors.FieldError{Field: p.path + ".params." + key, Reason: reason})
}

func (p *params) lookup(key string) (any, bool) {
	v, ok := p.values[key]
	if ok {
		p.used[key] = true
	}

	return v, ok
}

// Float binds key onto dst. A non-empty result of check rejects the value.
func (p *params) Float(key string, dst *float64, check func(float64) string) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}

	var v float64

	switch n := raw.(type) {
	case int:
		v = float64(n)
	case float64:
		v = n
	default:
		p.fail(key, fmt.Sprintf("must be a number, got %T", raw))

		return
	}

	if check != nil {
		if msg := check(v); msg != "" {
			p.fail(key, msg)

			return
		}
	}

	*dst = v
}

// Int binds key onto dst; it must be a whole number >= minimum.
func (p *params) Int(key string, dst *int, minimum int) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}

	var v int

	switch n := raw.(type) {
	case int:
		v = n
	case float64:
		if n != math.Trunc(n) {
			p.fail(key, "must be a whole number")

			return
		}

		v = int(n)
	default:
		p.fail(key, fmt.Sprintf("must be an integer, got %T", raw))

		return
	}

	if v < minimum {
		p.fail(key, fmt.Sprintf("must be >= %d", minimum))

		return
	}

	*dst = v
}

// Bool binds key onto dst.
func (p *params) Bool(key string, dst *bool) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}

	b, isBool := raw.(bool)
	if !isBool {
		p.fail(key, fmt.Sprintf("must be a boolean, got %T", raw))

		return
	}

	*dst = b
}

// Finish reports keys no binder consumed.
func (p *params) Finish() {
	var unknown []string

	for key := range p.values {
		if !p.used[key] {
			unknown = append(unknown, key)
		}
	}

	slices.Sort(unknown)

	for _, key := range unknown {
		p.fail(key, "unknown parameter")
	}
}

func positive(v float64) string {
	if v <= 0 {
		return "must be > 0"
	}

	return ""
}

func nonNegative(v float64) string {
	if v < 0 {
		return "must be >= 0"
	}

	return ""
}

func fraction(v float64) string {
	if v < 0 || v >= 1 {
		return "must be in [0, 1)"
	}

	return ""
}
