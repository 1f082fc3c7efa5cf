// Package pool implements draw-without-replacement pools used for foreign keys
// that must never repeat within a generation run.
//
// Pools are not safe for concurrent use. Generation is single threaded and the
// owning run state serializes access.
package pool

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrExhausted = errors.New("pool exhausted")

// ExhaustedError reports a pool that ran dry. Source names the upstream
// table (or table pair) whose configured row count must be raised.
type ExhaustedError struct {
	Pool   string
	Source string
	Size   int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("pool %q exhausted after %d draws: raise the row count for %s", e.Pool, e.Size, e.Source)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Unique hands out each of its values at most once, in shuffled order.
type Unique struct {
	name   string
	source string
	values []interface{}
	size   int
}

func NewUnique(name, source string, values []interface{}, rng *rand.Rand) *Unique {
	seen := make(map[interface{}]struct{}, len(values))
	uniq := make([]interface{}, 0, len(values))
	for _, v := range values {
		k := dedupeKey(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, v)
	}
	rng.Shuffle(len(uniq), func(i, j int) { uniq[i], uniq[j] = uniq[j], uniq[i] })

	return &Unique{name: name, source: source, values: uniq, size: len(uniq)}
}

func (p *Unique) Next() (interface{}, error) {
	if len(p.values) == 0 {
		return nil, &ExhaustedError{Pool: p.name, Source: p.source, Size: p.size}
	}
	v := p.values[0]
	p.values[0] = nil
	p.values = p.values[1:]
	return v, nil
}

func (p *Unique) Name() string   { return p.name }
func (p *Unique) Len() int       { return p.size }
func (p *Unique) Remaining() int { return len(p.values) }

// dedupeKey maps values that are not comparable (driver []byte) onto a
// comparable key so they can be used in a set.
func dedupeKey(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
