package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/registry"
	"github.com/hasura/data-generator-sub003/internal/rules"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// identifier validation: allow simple SQL identifiers only (prevents injection via table/column names).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

// IsValidTableName accepts "schema.table" or a bare table, each part a
// valid identifier.
func IsValidTableName(s string) bool {
	schema, table := keys.SplitTable(s)
	if schema != "" && !IsValidIdentifier(schema) {
		return false
	}
	return IsValidIdentifier(table)
}

func (v *Validator) ValidateCatalog(c *domain.Catalog) error {
	if c.ID == "" {
		return errors.New("catalog id is required")
	}
	if len(c.Rules) == 0 {
		return errors.New("catalog must have at least one rule")
	}
	for i := range c.Rules {
		if err := v.validateRule(&c.Rules[i]); err != nil {
			return fmt.Errorf("rule %d (%s / %s): %w", i, c.Rules[i].Table, c.Rules[i].Column, err)
		}
	}
	return nil
}

// ValidateCatalogs validates each catalog and rejects repeated ids.
func (v *Validator) ValidateCatalogs(list []domain.Catalog) error {
	seen := make(map[string]bool, len(list))
	for i := range list {
		c := &list[i]
		if seen[c.ID] {
			return fmt.Errorf("duplicate catalog id: %s", c.ID)
		}
		seen[c.ID] = true
		if err := v.ValidateCatalog(c); err != nil {
			return fmt.Errorf("catalog '%s': %w", c.ID, err)
		}
	}
	return validatePoolBindings(list)
}

// validatePoolBindings rejects a relationship or unique pool name that is
// bound to different key references by different rules. Rules sharing a
// name share one pool at run time.
func validatePoolBindings(list []domain.Catalog) error {
	type binding struct {
		refs string
		at   string
	}
	seen := make(map[string]binding)
	for _, c := range list {
		for i, r := range c.Rules {
			var key, refs string
			switch r.Generator.Type {
			case "pair":
				sides, rel := references(r.Generator)
				if len(sides) != 2 {
					continue
				}
				key = "relationship " + rel
				refs = sides[0].String() + " x " + sides[1].String()
			case "unique_fk":
				ref, ok := refFrom(r.Generator.Params)
				if !ok {
					continue
				}
				name, _ := r.Generator.Params["pool"].(string)
				if name == "" {
					name = ref.String()
				}
				key = "unique pool " + name
				refs = ref.String()
			default:
				continue
			}
			at := fmt.Sprintf("%s rule %d", c.ID, i)
			if prev, ok := seen[key]; ok && prev.refs != refs {
				return fmt.Errorf("%s is bound to %s by %s and to %s by %s", key, prev.refs, prev.at, refs, at)
			}
			if _, ok := seen[key]; !ok {
				seen[key] = binding{refs: refs, at: at}
			}
		}
	}
	return nil
}

func (v *Validator) validateRule(r *domain.RuleSpec) error {
	if r.Table == "" {
		return errors.New("table pattern is required")
	}
	if r.Column == "" {
		return errors.New("column pattern is required")
	}
	if _, err := rules.Compile(r.Table); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if _, err := rules.Compile(r.Column); err != nil {
		return fmt.Errorf("column: %w", err)
	}

	if r.Generator.Type == "" {
		return errors.New("generator type is required")
	}
	gen, err := v.genRegistry.Get(r.Generator.Type)
	if err != nil {
		return fmt.Errorf("generator not found: %s", r.Generator.Type)
	}
	if err := gen.Validate(r.Generator); err != nil {
		return fmt.Errorf("generator validation failed: %w", err)
	}
	return nil
}

func (v *Validator) ValidatePlan(p *domain.Plan) error {
	if p.Name == "" {
		return errors.New("plan name is required")
	}
	if len(p.Tables) == 0 {
		return errors.New("plan must have at least one table")
	}

	tableNames := make(map[string]bool)
	for i := range p.Tables {
		t := &p.Tables[i]
		if err := validateTablePlan(t, tableNames); err != nil {
			return fmt.Errorf("table '%s': %w", t.Table, err)
		}
	}
	return nil
}

func validateTablePlan(t *domain.TablePlan, tableNames map[string]bool) error {
	if t.Table == "" {
		return errors.New("table name is required")
	}
	if !IsValidTableName(t.Table) {
		return fmt.Errorf("invalid table identifier: %s", t.Table)
	}
	if tableNames[t.Table] {
		return fmt.Errorf("duplicate table: %s", t.Table)
	}
	tableNames[t.Table] = true

	if t.Rows <= 0 {
		return fmt.Errorf("rows must be > 0, got %d", t.Rows)
	}
	if len(t.Columns) == 0 {
		return errors.New("table must have at least one column")
	}

	columnNames := make(map[string]bool)
	for _, col := range t.Columns {
		if !IsValidIdentifier(col) {
			return fmt.Errorf("invalid column identifier: %s", col)
		}
		if columnNames[col] {
			return fmt.Errorf("duplicate column name: %s", col)
		}
		columnNames[col] = true
	}
	if t.PrimaryKey != "" && !columnNames[t.PrimaryKey] {
		return fmt.Errorf("primary_key '%s' is not one of the columns", t.PrimaryKey)
	}
	return nil
}

// ValidatePlanRules checks a plan against the rule set it will run with:
// every column resolves to a rule, upstream tables that are part of the plan
// come earlier and are referenced by their primary key, and each paired
// column follows the column that draws its pair.
func ValidatePlanRules(p *domain.Plan, set *rules.Set) error {
	position := make(map[string]int, len(p.Tables))
	for i, t := range p.Tables {
		position[t.Table] = i
	}

	for i, t := range p.Tables {
		bound := make(map[string]bool)
		for _, col := range t.Columns {
			r, err := set.Match(t.Table, col)
			if err != nil {
				return fmt.Errorf("table '%s': %w", t.Table, err)
			}
			refs, rel := references(r.Generator)
			for _, ref := range refs {
				j, inPlan := position[ref.Table]
				if !inPlan {
					continue
				}
				if j >= i {
					return fmt.Errorf("table '%s', column '%s': references %s, which is generated later", t.Table, col, ref)
				}
				if pk := p.Tables[j].PrimaryKey; pk != ref.Column {
					return fmt.Errorf("table '%s', column '%s': references %s, but only the primary key '%s' of %s is recorded", t.Table, col, ref, pk, ref.Table)
				}
			}
			switch r.Generator.Type {
			case "pair":
				bound[rel] = true
			case "paired":
				if !bound[rel] {
					return fmt.Errorf("table '%s', column '%s': reads relationship %q before any column draws it", t.Table, col, rel)
				}
			}
		}
	}
	return nil
}

// references extracts the upstream key references of a generator spec and,
// for pair/paired, the relationship name.
func references(spec domain.GeneratorSpec) ([]keys.Ref, string) {
	switch spec.Type {
	case "fk", "unique_fk":
		if ref, ok := refFrom(spec.Params); ok {
			return []keys.Ref{ref}, ""
		}
	case "pair":
		rel, _ := spec.Params["relationship"].(string)
		var out []keys.Ref
		for _, side := range []string{"left", "right"} {
			if m, ok := asMap(spec.Params[side]); ok {
				if ref, ok := refFrom(m); ok {
					out = append(out, ref)
				}
			}
		}
		return out, rel
	case "paired":
		rel, _ := spec.Params["relationship"].(string)
		return nil, rel
	}
	return nil, ""
}

func refFrom(params map[string]interface{}) (keys.Ref, bool) {
	table, ok1 := params["table"].(string)
	column, ok2 := params["column"].(string)
	return keys.Ref{Table: table, Column: column}, ok1 && ok2
}

func asMap(raw interface{}) (map[string]interface{}, bool) {
	switch m := raw.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	}
	return nil, false
}
