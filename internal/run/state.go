// Package run holds the mutable bookkeeping of one generation run: unique
// pools, pairing pools and correlator history. A State is created once per
// run and handed to every rule invocation; nothing here is process-global.
package run

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/logging"
	"github.com/hasura/data-generator-sub003/internal/pool"
)

type State struct {
	seed    int64
	rng     *rand.Rand
	src     keys.Source
	logger  *logging.Logger
	unique  map[string]*pool.Unique
	pairs   map[string]*pool.Pairs
	history map[string]*History

	// loaded caches non-empty key lists by ref; bound records the refs each
	// named pool was built from.
	loaded map[string][]interface{}
	bound  map[string]string
}

func NewState(src keys.Source, seed int64, logger *logging.Logger) *State {
	if logger == nil {
		logger = logging.NewLogger("error")
	}
	s := &State{
		seed:   seed,
		src:    src,
		logger: logger.WithComponent("run_state"),
	}
	s.Reset()
	return s
}

// Reset drops every pool and history so the same State can drive a fresh run.
func (s *State) Reset() {
	s.rng = rand.New(rand.NewSource(s.seed))
	s.unique = make(map[string]*pool.Unique)
	s.pairs = make(map[string]*pool.Pairs)
	s.history = make(map[string]*History)
	s.loaded = make(map[string][]interface{})
	s.bound = make(map[string]string)
}

func (s *State) Seed() int64 { return s.seed }

// DrawUnique pops the next unused key of ref from the pool called name. The
// pool is filled from the key source on first use.
func (s *State) DrawUnique(ctx context.Context, name string, ref keys.Ref) (interface{}, error) {
	if err := s.bind("unique pool", name, ref.String()); err != nil {
		return nil, err
	}
	p, ok := s.unique[name]
	if !ok {
		values, err := s.loadKeys(ctx, ref)
		if err != nil {
			return nil, err
		}
		p = pool.NewUnique(name, ref.Table, values, s.rng)
		s.unique[name] = p
		s.logger.Debugw("pool.created", map[string]any{"pool": name, "source": ref.String(), "size": p.Len()})
	}
	return p.Next()
}

// DrawPair pops the next unused (left, right) combination for a relationship.
func (s *State) DrawPair(ctx context.Context, name string, left, right keys.Ref) (pool.Pair, error) {
	if err := s.bind("relationship", name, left.String()+" x "+right.String()); err != nil {
		return pool.Pair{}, err
	}
	p, ok := s.pairs[name]
	if !ok {
		lv, err := s.loadKeys(ctx, left)
		if err != nil {
			return pool.Pair{}, err
		}
		rv, err := s.loadKeys(ctx, right)
		if err != nil {
			return pool.Pair{}, err
		}
		source := fmt.Sprintf("%s or %s", left.Table, right.Table)
		p = pool.NewPairs(name, source, lv, rv, s.rng)
		s.pairs[name] = p
		s.logger.Infow("pairs.created", map[string]any{"pool": name, "left": left.String(), "right": right.String(), "size": p.Len()})
	}
	return p.Next()
}

// Keys returns upstream keys for draw-with-replacement generators, failing the
// same way pools do when the table is empty. A non-empty list is read from the
// source once per run; callers must not modify it.
func (s *State) Keys(ctx context.Context, ref keys.Ref) ([]interface{}, error) {
	return s.loadKeys(ctx, ref)
}

func (s *State) History(name string, capacity int) *History {
	h, ok := s.history[name]
	if !ok {
		h = NewHistory(capacity)
		s.history[name] = h
	}
	return h
}

// bind ties a pool name to the refs it draws from. Reusing the name with
// other refs is an error rather than a silent draw from the wrong pool.
func (s *State) bind(kind, name, refs string) error {
	key := kind + "/" + name
	prev, ok := s.bound[key]
	if !ok {
		s.bound[key] = refs
		return nil
	}
	if prev != refs {
		return fmt.Errorf("%s %q is bound to %s, cannot also draw from %s", kind, name, prev, refs)
	}
	return nil
}

func (s *State) loadKeys(ctx context.Context, ref keys.Ref) ([]interface{}, error) {
	if values, ok := s.loaded[ref.String()]; ok {
		return values, nil
	}
	if s.src == nil {
		return nil, &keys.MissingError{Ref: ref}
	}
	values, err := s.src.Keys(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load keys for %s: %w", ref, err)
	}
	if len(values) == 0 {
		return nil, &keys.MissingError{Ref: ref}
	}
	s.loaded[ref.String()] = values
	return values, nil
}
