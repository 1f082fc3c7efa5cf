package generators

import (
	"errors"
	"fmt"
	"math"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// UniformFloatGenerator draws from [min, max), optionally rounded to a fixed
// number of decimals for money columns.
type UniformFloatGenerator struct{}

func (g *UniformFloatGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *UniformFloatGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("uniform_float requires 'min' and 'max' params")
	}
	_, hasMin := spec.Params["min"]
	_, hasMax := spec.Params["max"]
	if !hasMin || !hasMax {
		return nil, errors.New("uniform_float requires 'min' and 'max' params")
	}

	min := toFloat64(spec.Params["min"])
	max := toFloat64(spec.Params["max"])
	if max < min {
		return nil, fmt.Errorf("max (%v) must not be less than min (%v)", max, min)
	}
	decimals, err := numberParam(spec.Params, "decimals", -1)
	if err != nil {
		return nil, err
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		v := min + gctx.Rand.Float64()*(max-min)
		if decimals >= 0 {
			scale := math.Pow(10, decimals)
			v = math.Round(v*scale) / scale
		}
		return v, nil
	}, nil
}
