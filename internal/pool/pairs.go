package pool

import (
	"fmt"
	"math/rand"
)

type Pair struct {
	Left  interface{}
	Right interface{}
}

func (p Pair) String() string {
	return fmt.Sprintf("(%v, %v)", p.Left, p.Right)
}

// Pairs is the shuffled cross product of two identifier sets. Each
// combination is emitted at most once, so a junction table never receives the
// same (left, right) pair twice.
type Pairs struct {
	name   string
	source string
	pairs  []Pair
	size   int
}

func NewPairs(name, source string, left, right []interface{}, rng *rand.Rand) *Pairs {
	type pairKey struct{ l, r interface{} }

	seen := make(map[pairKey]struct{}, len(left)*len(right))
	pairs := make([]Pair, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			k := pairKey{dedupeKey(l), dedupeKey(r)}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			pairs = append(pairs, Pair{Left: l, Right: r})
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })

	return &Pairs{name: name, source: source, pairs: pairs, size: len(pairs)}
}

func (p *Pairs) Next() (Pair, error) {
	n := len(p.pairs)
	if n == 0 {
		return Pair{}, &ExhaustedError{Pool: p.name, Source: p.source, Size: p.size}
	}
	v := p.pairs[n-1]
	p.pairs = p.pairs[:n-1]
	return v, nil
}

func (p *Pairs) Name() string   { return p.name }
func (p *Pairs) Len() int       { return p.size }
func (p *Pairs) Remaining() int { return len(p.pairs) }
