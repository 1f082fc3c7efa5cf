package rules

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/generators"
)

var ErrNoRule = errors.New("no rule matches")

// Rule pairs a table pattern and a column pattern with the value function
// bound from its generator spec. Patterns must match the whole name.
type Rule struct {
	TablePattern  string
	ColumnPattern string
	Table         *regexp.Regexp
	Column        *regexp.Regexp
	Default       bool
	Generator     domain.GeneratorSpec
	Fn            generators.Func

	// Source is the catalog id and Position the index within that catalog.
	Source   string
	Position int
}

func (r *Rule) Matches(table, column string) bool {
	return r.Table.MatchString(table) && r.Column.MatchString(column)
}

func (r *Rule) Tier() string {
	if r.Default {
		return "default"
	}
	return "specific"
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s[%d] %s / %s (%s)", r.Source, r.Position, r.TablePattern, r.ColumnPattern, r.Generator.Type)
}

// Compile anchors pattern so it has to match the full name.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, errors.New("empty pattern")
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Set is an ordered rule list with two tiers. Match consults the specific
// tier first and falls back to the default tier; within a tier the earliest
// added rule wins. A Set is immutable once handed to a driver.
type Set struct {
	specific []*Rule
	defaults []*Rule
}

func NewSet() *Set {
	return &Set{}
}

func (s *Set) Add(spec domain.RuleSpec, source string, position int, fn generators.Func) (*Rule, error) {
	table, err := Compile(spec.Table)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	column, err := Compile(spec.Column)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	r := &Rule{
		TablePattern:  spec.Table,
		ColumnPattern: spec.Column,
		Table:         table,
		Column:        column,
		Default:       spec.Default,
		Generator:     spec.Generator,
		Fn:            fn,
		Source:        source,
		Position:      position,
	}
	if r.Default {
		s.defaults = append(s.defaults, r)
	} else {
		s.specific = append(s.specific, r)
	}
	return r, nil
}

func (s *Set) Match(table, column string) (*Rule, error) {
	for _, r := range s.specific {
		if r.Matches(table, column) {
			return r, nil
		}
	}
	for _, r := range s.defaults {
		if r.Matches(table, column) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w %s.%s", ErrNoRule, table, column)
}

// MatchAll returns every matching rule in dispatch order. The first element
// is the one Match would return.
func (s *Set) MatchAll(table, column string) []*Rule {
	var out []*Rule
	for _, r := range s.Rules() {
		if r.Matches(table, column) {
			out = append(out, r)
		}
	}
	return out
}

// Rules returns all rules in dispatch order.
func (s *Set) Rules() []*Rule {
	out := make([]*Rule, 0, len(s.specific)+len(s.defaults))
	out = append(out, s.specific...)
	return append(out, s.defaults...)
}

func (s *Set) Len() int {
	return len(s.specific) + len(s.defaults)
}

// Binder turns a generator spec into a value function.
type Binder interface {
	Bind(spec domain.GeneratorSpec) (generators.Func, error)
}

// Build compiles and binds every rule of catalogs in order.
func Build(catalogs []domain.Catalog, binder Binder) (*Set, error) {
	set := NewSet()
	for _, c := range catalogs {
		for i, spec := range c.Rules {
			fn, err := binder.Bind(spec.Generator)
			if err != nil {
				return nil, fmt.Errorf("catalog %s rule %d (%s / %s): %w", c.ID, i, spec.Table, spec.Column, err)
			}
			if _, err := set.Add(spec, c.ID, i, fn); err != nil {
				return nil, fmt.Errorf("catalog %s rule %d: %w", c.ID, i, err)
			}
		}
	}
	return set, nil
}
