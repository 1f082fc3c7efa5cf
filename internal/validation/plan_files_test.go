package validation

import (
	"testing"

	"github.com/hasura/data-generator-sub003/internal/plans"
	"github.com/hasura/data-generator-sub003/internal/registry"
)

func TestRepositoryPlansValidate(t *testing.T) {
	repo := plans.NewFileRepository("../../plans")
	list, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("expected plan files")
	}

	v := NewValidator(registry.DefaultGeneratorRegistry())
	set := builtinSet(t)
	for _, p := range list {
		if err := v.ValidatePlan(p); err != nil {
			t.Fatalf("plan %q failed validation: %v", p.ID, err)
		}
		if err := ValidatePlanRules(p, set); err != nil {
			t.Fatalf("plan %q does not resolve against builtin rules: %v", p.ID, err)
		}
	}
}
