package generators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// ChoiceGenerator samples with replacement from a fixed vocabulary, uniformly
// or by weight. With lowercase set, string values are case-folded.
type ChoiceGenerator struct{}

func (g *ChoiceGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *ChoiceGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("choice requires 'values' param")
	}
	values, err := listParam(spec.Params, "values")
	if err != nil {
		return nil, err
	}
	lowercase, err := boolParam(spec.Params, "lowercase")
	if err != nil {
		return nil, err
	}
	if lowercase {
		folded := make([]interface{}, len(values))
		for i, v := range values {
			if s, ok := v.(string); ok {
				folded[i] = strings.ToLower(s)
			} else {
				folded[i] = v
			}
		}
		values = folded
	}

	weightsRaw, hasWeights := spec.Params["weights"]
	if !hasWeights {
		return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
			return values[gctx.Rand.Intn(len(values))], nil
		}, nil
	}

	weights, ok := weightsRaw.([]interface{})
	if !ok {
		return nil, errors.New("'weights' must be a list")
	}
	if len(weights) != len(values) {
		return nil, errors.New("'weights' and 'values' must have the same length")
	}

	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if !isNumber(w) {
			return nil, fmt.Errorf("weight %v is not a number", w)
		}
		weight := toFloat64(w)
		if weight < 0 {
			return nil, fmt.Errorf("negative weight: %v", w)
		}
		total += weight
		cumulative[i] = total
	}
	if total == 0 {
		return nil, errors.New("total weight is zero")
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		r := gctx.Rand.Float64() * total
		for i, c := range cumulative {
			if r < c {
				return values[i], nil
			}
		}
		return values[len(values)-1], nil
	}, nil
}
