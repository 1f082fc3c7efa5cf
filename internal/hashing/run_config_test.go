package hashing

import (
	"testing"

	"github.com/hasura/data-generator-sub003/internal/domain"
)

func TestHashRunConfig_IncludesSeedOrderAndResolvedCounts(t *testing.T) {
	plan := &domain.Plan{
		ID:   "p1",
		Name: "plan",
		Tables: []domain.TablePlan{
			{Table: "security.identities", Rows: 10, PrimaryKey: "identity_id", Columns: []string{"identity_id", "username"}},
			{Table: "security.roles", Rows: 5, PrimaryKey: "role_id", Columns: []string{"role_id", "role_name"}},
		},
	}

	h1, err := HashRunConfig("abc", plan, map[string]int64{"security.identities": 10}, "memory", 11)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashRunConfig("abc", plan, map[string]int64{"security.identities": 10}, "memory", 12)
	if err != nil {
		t.Fatal(err)
	}
	h3, err := HashRunConfig("abc", plan, map[string]int64{"security.identities": 20}, "memory", 11)
	if err != nil {
		t.Fatal(err)
	}
	h4, err := HashRunConfig("abc", plan, map[string]int64{"security.identities": 10}, "postgres", 11)
	if err != nil {
		t.Fatal(err)
	}

	swapped := *plan
	swapped.Tables = []domain.TablePlan{plan.Tables[1], plan.Tables[0]}
	h5, err := HashRunConfig("abc", &swapped, map[string]int64{"security.identities": 10}, "memory", 11)
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Fatal("expected seed to affect hash")
	}
	if h1 == h3 {
		t.Fatal("expected resolved counts to affect hash")
	}
	if h1 == h4 {
		t.Fatal("expected key source kind to affect hash")
	}
	if h1 == h5 {
		t.Fatal("expected table order to affect hash")
	}
}
