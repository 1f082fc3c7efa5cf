package generators

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/run"
)

// Func produces the value for row[column]. It may read columns of row that
// were already assigned.
type Func func(row domain.Row, column string, gctx *Context) (interface{}, error)

// Generator validates a catalog spec once at startup and binds it into a Func.
type Generator interface {
	Validate(spec domain.GeneratorSpec) error
	Bind(spec domain.GeneratorSpec) (Func, error)
}

var ErrNoPendingAssignment = errors.New("no pending correlated assignment")

// Context is the row-construction context passed to every Func. The pending
// slot carries a value from the rule that drew a pair to the rule that reads
// its other half; the writing rule must run first for a given row.
type Context struct {
	Ctx      context.Context
	Rand     *rand.Rand
	State    *run.State
	Table    string
	RowIndex int64

	pending map[string]interface{}
}

func NewContext(ctx context.Context, rng *rand.Rand, state *run.State, table string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Ctx:     ctx,
		Rand:    rng,
		State:   state,
		Table:   table,
		pending: make(map[string]interface{}),
	}
}

// NewRow clears the pending slot before the next row is built.
func (c *Context) NewRow(rowIndex int64) {
	c.RowIndex = rowIndex
	clear(c.pending)
}

func (c *Context) Bind(relationship string, v interface{}) {
	c.pending[relationship] = v
}

func (c *Context) Pending(relationship string) (interface{}, error) {
	v, ok := c.pending[relationship]
	if !ok {
		return nil, fmt.Errorf("%w for %q: the rule drawing the pair must run before the rule reading it", ErrNoPendingAssignment, relationship)
	}
	return v, nil
}
