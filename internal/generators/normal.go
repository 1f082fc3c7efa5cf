package generators

import (
	"errors"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

type NormalGenerator struct{}

func (g *NormalGenerator) Validate(spec domain.GeneratorSpec) error {
	if spec.Params == nil {
		return errors.New("normal requires 'mean' and 'std' params")
	}
	_, hasMean := spec.Params["mean"]
	_, hasStd := spec.Params["std"]
	if !hasMean || !hasStd {
		return errors.New("normal requires 'mean' and 'std' params")
	}
	if toFloat64(spec.Params["std"]) < 0 {
		return errors.New("'std' must not be negative")
	}
	return nil
}

func (g *NormalGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	mean := toFloat64(spec.Params["mean"])
	std := toFloat64(spec.Params["std"])
	min, hasMin := spec.Params["min"]
	floor := toFloat64(min)

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		v := gctx.Rand.NormFloat64()*std + mean
		if hasMin && v < floor {
			v = floor
		}
		return v, nil
	}, nil
}
