package generators

import (
	"github.com/google/uuid"
	"github.com/hasura/data-generator-sub003/internal/domain"
)

// UUID4Generator builds version 4 UUIDs from the run's seeded RNG so that
// seeded runs are reproducible.
type UUID4Generator struct{}

func (g *UUID4Generator) Validate(spec domain.GeneratorSpec) error {
	return nil
}

func (g *UUID4Generator) Bind(spec domain.GeneratorSpec) (Func, error) {
	return func(row domain.Row, column string, gctx *Context) (interface{}, error) {
		uuidBytes := make([]byte, 16)
		gctx.Rand.Read(uuidBytes)
		uuidBytes[6] = (uuidBytes[6] & 0x0f) | 0x40
		uuidBytes[8] = (uuidBytes[8] & 0x3f) | 0x80
		u, err := uuid.FromBytes(uuidBytes)
		if err != nil {
			return nil, err
		}
		return u.String(), nil
	}, nil
}
