package generators

import (
	"errors"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// UniformIntGenerator draws from [min, max).
type UniformIntGenerator struct{}

func (g *UniformIntGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *UniformIntGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("uniform_int requires 'min' and 'max' params")
	}
	minVal, hasMin := spec.Params["min"]
	maxVal, hasMax := spec.Params["max"]
	if !hasMin || !hasMax {
		return nil, errors.New("uniform_int requires 'min' and 'max' params")
	}

	min := toInt64(minVal)
	max := toInt64(maxVal)
	if max <= min {
		return nil, fmt.Errorf("max (%d) must be greater than min (%d)", max, min)
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		return min + gctx.Rand.Int63n(max-min), nil
	}, nil
}
