package validation

import (
	"strings"
	"testing"

	"github.com/hasura/data-generator-sub003/internal/catalog"
	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/registry"
)

func TestBuiltinCatalogsValidate(t *testing.T) {
	list, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("expected builtin catalogs")
	}

	v := NewValidator(registry.DefaultGeneratorRegistry())
	if err := v.ValidateCatalogs(list); err != nil {
		t.Fatalf("builtin catalogs failed validation: %v", err)
	}
}

func TestValidateCatalog_Rejects(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	good := domain.RuleSpec{
		Table:     `retail\.accounts`,
		Column:    "status",
		Generator: domain.GeneratorSpec{Type: "choice", Params: map[string]interface{}{"values": []interface{}{"Active"}}},
	}

	cases := map[string]func(r *domain.RuleSpec){
		"bad table pattern": func(r *domain.RuleSpec) { r.Table = "(" },
		"empty column":      func(r *domain.RuleSpec) { r.Column = "" },
		"unknown generator": func(r *domain.RuleSpec) { r.Generator.Type = "nope" },
		"empty choice":      func(r *domain.RuleSpec) { r.Generator.Params = map[string]interface{}{"values": []interface{}{}} },
		"missing generator": func(r *domain.RuleSpec) { r.Generator.Type = "" },
	}
	for name, mutate := range cases {
		r := good
		mutate(&r)
		c := &domain.Catalog{ID: "c", Rules: []domain.RuleSpec{r}}
		if err := v.ValidateCatalog(c); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	if err := v.ValidateCatalog(&domain.Catalog{ID: "c", Rules: []domain.RuleSpec{good}}); err != nil {
		t.Fatalf("expected valid catalog, got %v", err)
	}
	dup := []domain.Catalog{{ID: "c", Rules: []domain.RuleSpec{good}}, {ID: "c", Rules: []domain.RuleSpec{good}}}
	if err := v.ValidateCatalogs(dup); err == nil {
		t.Fatal("expected duplicate catalog id error")
	}
}

func TestValidateCatalogs_PoolNamesBindOneSource(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry())
	ref := func(table, column string) map[string]interface{} {
		return map[string]interface{}{"table": table, "column": column}
	}
	pair := func(right map[string]interface{}) domain.RuleSpec {
		return domain.RuleSpec{
			Table:     `security\.identity_grants`,
			Column:    "identity_id",
			Generator: domain.GeneratorSpec{Type: "pair", Params: map[string]interface{}{
				"relationship": "grants",
				"left":         ref("security.identities", "identity_id"),
				"right":        right,
			}},
		}
	}
	uniqueFK := func(table string) domain.RuleSpec {
		params := ref(table, "id")
		params["pool"] = "owners"
		return domain.RuleSpec{Table: `x\.y`, Column: "owner_id", Generator: domain.GeneratorSpec{Type: "unique_fk", Params: params}}
	}

	same := []domain.Catalog{
		{ID: "a", Rules: []domain.RuleSpec{pair(ref("security.roles", "role_id"))}},
		{ID: "b", Rules: []domain.RuleSpec{pair(ref("security.roles", "role_id")), uniqueFK("s.people"), uniqueFK("s.people")}},
	}
	if err := v.ValidateCatalogs(same); err != nil {
		t.Fatalf("expected repeated identical bindings to pass, got %v", err)
	}

	conflicting := []domain.Catalog{
		{ID: "a", Rules: []domain.RuleSpec{pair(ref("security.roles", "role_id"))}},
		{ID: "b", Rules: []domain.RuleSpec{pair(ref("security.entitlements", "entitlement_id"))}},
	}
	if err := v.ValidateCatalogs(conflicting); err == nil || !strings.Contains(err.Error(), "relationship grants") {
		t.Fatalf("expected relationship conflict, got %v", err)
	}

	pools := []domain.Catalog{{ID: "a", Rules: []domain.RuleSpec{uniqueFK("s.people"), uniqueFK("s.companies")}}}
	if err := v.ValidateCatalogs(pools); err == nil || !strings.Contains(err.Error(), "unique pool owners") {
		t.Fatalf("expected unique pool conflict, got %v", err)
	}
}
