package rules

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hasura/data-generator-sub003/internal/keys"
)

type FindingKind string

const (
	// FindingDuplicate marks two rules in one tier with identical patterns.
	FindingDuplicate FindingKind = "duplicate"
	// FindingOverlap marks a (table, column) pair matched by several rules of
	// one tier. Only Winner is ever invoked for it.
	FindingOverlap FindingKind = "overlap"
)

type Finding struct {
	Kind     FindingKind
	Tier     string
	Table    string
	Column   string
	Winner   *Rule
	Shadowed []*Rule
	// Probes counts the probe pairs that hit the same rule combination.
	Probes int
}

func (f Finding) String() string {
	shadowed := make([]string, len(f.Shadowed))
	for i, r := range f.Shadowed {
		shadowed[i] = r.String()
	}
	if f.Kind == FindingDuplicate {
		return fmt.Sprintf("%s (%s tier): %s repeats %s", f.Kind, f.Tier, strings.Join(shadowed, ", "), f.Winner)
	}
	return fmt.Sprintf("%s (%s tier) at %s.%s [%d probes]: %s wins over %s",
		f.Kind, f.Tier, f.Table, f.Column, f.Probes, f.Winner, strings.Join(shadowed, ", "))
}

// Probe is a concrete (table, column) pair to test the rule set against.
type Probe struct {
	Table  string
	Column string
}

// Probes derives concrete pairs from the rule set's own patterns. A side
// that cannot be enumerated (".*") is crossed with every literal seen on that
// side elsewhere in the set.
func Probes(set *Set) []Probe {
	type expansion struct {
		tables, columns []string
	}
	all := set.Rules()
	exp := make([]expansion, len(all))
	tableSeen := map[string]bool{}
	columnSeen := map[string]bool{}
	var tables, columns []string
	for i, r := range all {
		if ts, ok := literals(r.TablePattern); ok {
			exp[i].tables = ts
			for _, t := range ts {
				if !tableSeen[t] {
					tableSeen[t] = true
					tables = append(tables, t)
				}
			}
		}
		if cs, ok := literals(r.ColumnPattern); ok {
			exp[i].columns = cs
			for _, c := range cs {
				if !columnSeen[c] {
					columnSeen[c] = true
					columns = append(columns, c)
				}
			}
		}
	}

	seen := map[Probe]bool{}
	var out []Probe
	for _, e := range exp {
		if e.tables == nil && e.columns == nil {
			continue
		}
		ts, cs := e.tables, e.columns
		if ts == nil {
			ts = tables
		}
		if cs == nil {
			cs = columns
		}
		for _, t := range ts {
			for _, c := range cs {
				p := Probe{Table: t, Column: c}
				if !seen[p] {
					seen[p] = true
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// LoadInventory reads one "schema.table.column" per line. Blank lines and
// lines starting with '#' are skipped.
func LoadInventory(r io.Reader) ([]Probe, error) {
	var out []Probe
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		table, column := keys.SplitTable(text)
		if column == "" || !strings.Contains(table, ".") {
			return nil, fmt.Errorf("inventory line %d: expected schema.table.column, got %q", line, text)
		}
		out = append(out, Probe{Table: table, Column: column})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	return out, nil
}

// Lint reports rules that can never be reached for some (table, column):
// identical patterns within a tier, and probes matched by more than one rule
// of the same tier. Findings are ordered by kind, then by winning rule.
func Lint(set *Set, inventory []Probe) []Finding {
	var findings []Finding
	dup := map[[2]*Rule]bool{}

	for _, tier := range [][]*Rule{set.specific, set.defaults} {
		for i := 0; i < len(tier); i++ {
			for j := i + 1; j < len(tier); j++ {
				a, b := tier[i], tier[j]
				if a.TablePattern == b.TablePattern && a.ColumnPattern == b.ColumnPattern {
					dup[[2]*Rule{a, b}] = true
					findings = append(findings, Finding{
						Kind:     FindingDuplicate,
						Tier:     a.Tier(),
						Table:    a.TablePattern,
						Column:   a.ColumnPattern,
						Winner:   a,
						Shadowed: []*Rule{b},
					})
				}
			}
		}
	}

	probes := Probes(set)
	seenProbe := make(map[Probe]bool, len(probes))
	for _, p := range probes {
		seenProbe[p] = true
	}
	for _, p := range inventory {
		if !seenProbe[p] {
			seenProbe[p] = true
			probes = append(probes, p)
		}
	}

	overlaps := map[string]int{}
	for _, p := range probes {
		for _, tier := range [][]*Rule{set.specific, set.defaults} {
			var hits []*Rule
			for _, r := range tier {
				if r.Matches(p.Table, p.Column) {
					hits = append(hits, r)
				}
			}
			if len(hits) < 2 {
				continue
			}
			if len(hits) == 2 && dup[[2]*Rule{hits[0], hits[1]}] {
				continue
			}
			key := ruleKey(hits)
			if idx, ok := overlaps[key]; ok {
				findings[idx].Probes++
				continue
			}
			overlaps[key] = len(findings)
			findings = append(findings, Finding{
				Kind:     FindingOverlap,
				Tier:     hits[0].Tier(),
				Table:    p.Table,
				Column:   p.Column,
				Winner:   hits[0],
				Shadowed: hits[1:],
				Probes:   1,
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Kind != findings[j].Kind {
			return findings[i].Kind == FindingDuplicate
		}
		return findings[i].Winner.String() < findings[j].Winner.String()
	})
	return findings
}

func ruleKey(rs []*Rule) string {
	var b strings.Builder
	for _, r := range rs {
		fmt.Fprintf(&b, "%s|%s[%d];", r.Tier(), r.Source, r.Position)
	}
	return b.String()
}
