package generators

import (
	"errors"
	"fmt"
	"time"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/timeutil"
)

// DateGenerator draws a time uniformly between start and end. Both bounds
// accept RFC 3339 or relative offsets such as "-5y" and "+30d", resolved
// against the moment the rule is bound.
type DateGenerator struct {
	Now func() time.Time
}

func (g *DateGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.Bind(spec)
	return err
}

func (g *DateGenerator) Bind(spec domain.GeneratorSpec) (Func, error) {
	if spec.Params == nil {
		return nil, errors.New("date requires 'start' and 'end' params")
	}
	startStr, err := stringParam(spec.Params, "start")
	if err != nil {
		return nil, err
	}
	endStr, err := optionalString(spec.Params, "end", "+0d")
	if err != nil {
		return nil, err
	}
	layout, err := optionalString(spec.Params, "format", "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	start, err := timeutil.ParseRelativeTime(startStr, now)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := timeutil.ParseRelativeTime(endStr, now)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end (%s) must be after start (%s)", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	span := end.Sub(start)

	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		t := start.Add(time.Duration(gctx.Rand.Int63n(int64(span))))
		if layout != "" {
			return t.Format(layout), nil
		}
		return t, nil
	}, nil
}
