package generators

import (
	"errors"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

// ContentGenerator returns text correlated with a subject already set on the
// row: the mapped content when the subject is known, otherwise a uniform draw
// from the fallback pool.
type ContentGenerator struct{}

func (g *ContentGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *ContentGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("content requires 'subject_column' and 'fallback' params")
	}
	subjectColumn, err := stringParam(spec.Params, "subject_column")
	if err != nil {
		return nil, err
	}
	fallback, err := listParam(spec.Params, "fallback")
	if err != nil {
		return nil, err
	}

	mapping := map[string]interface{}{}
	if raw, ok := spec.Params["mapping"]; ok {
		m, ok := stringMap(raw)
		if !ok {
			return nil, errors.New("'mapping' must be a map of subject to content")
		}
		mapping = m
	}

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		if subject, ok := row[subjectColumn]; ok && subject != nil {
			if content, ok := mapping[fmt.Sprint(subject)]; ok {
				return content, nil
			}
		}
		return fallback[gctx.Rand.Intn(len(fallback))], nil
	}, nil
}
