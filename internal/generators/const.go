package generators

import (
	"errors"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

type ConstGenerator struct{}

func (g *ConstGenerator) Validate(spec domain.GeneratorSpec) error {
	if spec.Params == nil {
		return errors.New("const generator requires 'value' param")
	}
	if _, ok := spec.Params["value"]; !ok {
		return errors.New("const generator requires 'value' param")
	}
	return nil
}

func (g *ConstGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	value := spec.Params["value"]
	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		return value, nil
	}, nil
}
