package generators

import (
	"github.com/hasura/data-generator-sub003/internal/domain"
)

// FKGenerator picks any already-inserted key of the referenced column. Repeats
// are allowed; use UniqueFKGenerator when each key may be used once.
type FKGenerator struct{}

func (g *FKGenerator) Validate(spec domain.GeneratorSpec) error {
	if spec.Params == nil {
		return errNoParams
	}
	_, err := refParam(spec.Params, "")
	return err
}

func (g *FKGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if err := g.Validate(spec); err != nil {
		return nil, err
	}
	ref, _ := refParam(spec.Params, "")

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		values, err := gctx.State.Keys(gctx.Ctx, ref)
		if err != nil {
			return nil, err
		}
		return values[gctx.Rand.Intn(len(values))], nil
	}, nil
}

// UniqueFKGenerator hands out each referenced key at most once per run. The
// pool param lets two rules share one pool; it defaults to the reference.
type UniqueFKGenerator struct{}

func (g *UniqueFKGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *UniqueFKGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errNoParams
	}
	ref, err := refParam(spec.Params, "")
	if err != nil {
		return nil, err
	}
	name, err := optionalString(spec.Params, "pool", ref.String())
	if err != nil {
		return nil, err
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		return gctx.State.DrawUnique(gctx.Ctx, name, ref)
	}, nil
}
