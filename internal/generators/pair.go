package generators

import (
	"errors"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// PairGenerator draws an unused (left, right) combination for a relationship,
// returns the left id and leaves the right id in the row context for a
// PairedGenerator rule on another column of the same row.
type PairGenerator struct{}

func (g *PairGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *PairGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("pair requires 'relationship', 'left' and 'right' params")
	}
	rel, err := stringParam(spec.Params, "relationship")
	if err != nil {
		return nil, err
	}
	left, err := refParam(spec.Params, "left")
	if err != nil {
		return nil, err
	}
	right, err := refParam(spec.Params, "right")
	if err != nil {
		return nil, err
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		p, err := gctx.State.DrawPair(gctx.Ctx, rel, left, right)
		if err != nil {
			return nil, err
		}
		gctx.Bind(rel, p.Right)
		return p.Left, nil
	}, nil
}

// PairedGenerator reads the right-hand id bound by a PairGenerator earlier in
// the same row. It never draws on its own.
type PairedGenerator struct{}

func (g *PairedGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *PairedGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("paired requires 'relationship' param")
	}
	rel, err := stringParam(spec.Params, "relationship")
	if err != nil {
		return nil, err
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		return gctx.Pending(rel)
	}, nil
}
