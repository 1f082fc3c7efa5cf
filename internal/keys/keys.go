// Package keys describes where correlated generators find the primary keys
// already inserted for upstream tables.
package keys

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrMissing = errors.New("upstream keys missing")

// Ref names one key column of a fully-qualified table.
type Ref struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
}

func (r Ref) String() string {
	return r.Table + "." + r.Column
}

// MissingError means a referenced table had no keys when a pool was first
// built from it, which is a generation-order violation by the caller.
type MissingError struct {
	Ref Ref
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("no keys found for %s: generate %s before the tables that reference it", e.Ref, e.Ref.Table)
}

func (e *MissingError) Is(target error) bool {
	return target == ErrMissing
}

// Source returns the keys already inserted for a table column. An empty
// result with a nil error means the table exists but has no rows.
type Source interface {
	Keys(ctx context.Context, ref Ref) ([]interface{}, error)
}

// Memory is an in-process Source fed by the driver as rows are emitted.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]interface{}
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]interface{})}
}

func (m *Memory) Record(ref Ref, v interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ref.String()
	m.values[key] = append(m.values[key], v)
}

func (m *Memory) Keys(ctx context.Context, ref Ref) ([]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := m.values[ref.String()]
	out := make([]interface{}, len(values))
	copy(out, values)
	return out, nil
}

// Chain asks each source in order and returns the first non-empty result.
type Chain []Source

func (c Chain) Keys(ctx context.Context, ref Ref) ([]interface{}, error) {
	for _, src := range c {
		values, err := src.Keys(ctx, ref)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			return values, nil
		}
	}
	return nil, nil
}

// SplitTable splits "schema.table" into its parts. A bare table name yields
// an empty schema.
func SplitTable(fq string) (schema, table string) {
	if i := strings.LastIndexByte(fq, '.'); i >= 0 {
		return fq[:i], fq[i+1:]
	}
	return "", fq
}

// Normalize converts driver values into comparable Go values.
func Normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
