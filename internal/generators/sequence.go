package generators

import (
	"github.com/hasura/data-generator-sub003/internal/domain"
)

// SequenceGenerator yields start + row index, for surrogate primary keys.
type SequenceGenerator struct{}

func (g *SequenceGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *SequenceGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	start, err := numberParam(spec.Params, "start", 1)
	if err != nil {
		return nil, err
	}
	step, err := numberParam(spec.Params, "step", 1)
	if err != nil {
		return nil, err
	}
	first, inc := int64(start), int64(step)
	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		return first + gctx.RowIndex*inc, nil
	}, nil
}
