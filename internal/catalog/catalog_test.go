package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hasura/data-generator-sub003/internal/registry"
	"github.com/hasura/data-generator-sub003/internal/rules"
)

const userCatalog = `id: retail_banking
name: Retail banking override
rules:
  - table: 'retail_banking\.accounts'
    column: status
    generator: {type: const, params: {value: Open}}
`

func TestBuiltinDomains(t *testing.T) {
	list, err := Builtin()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{
		"consumer_lending": true, "credit_cards": true, "enterprise_security": true,
		"mortgage_services": true, "retail_banking": true, "shared": true, "small_business_banking": true,
	}
	if len(list) != len(want) {
		t.Fatalf("expected %d catalogs, got %d", len(want), len(list))
	}
	for i, c := range list {
		if !want[c.ID] {
			t.Fatalf("unexpected catalog %q", c.ID)
		}
		if i > 0 && list[i-1].ID > c.ID {
			t.Fatalf("catalogs not in filename order: %s before %s", list[i-1].ID, c.ID)
		}
	}
}

func TestLoad_UserCatalogsFirstAndOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "retail.yaml"), []byte(userCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].Name != "Retail banking override" {
		t.Fatalf("expected user catalog first, got %q", list[0].Name)
	}
	count := 0
	for _, c := range list {
		if c.ID == "retail_banking" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected builtin retail_banking to be replaced, found %d", count)
	}

	set, err := rules.Build(list, registry.DefaultGeneratorRegistry())
	if err != nil {
		t.Fatal(err)
	}
	r, err := set.Match("retail_banking.accounts", "status")
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != "retail_banking" || r.Generator.Type != "const" {
		t.Fatalf("expected user rule to win, got %s", r)
	}
}

func TestLoad_RejectsMalformedAndUnknownFields(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\nrulez: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestGetByPath_RejectsPathTraversal(t *testing.T) {
	base := t.TempDir()
	repo := NewFileRepository(base)

	if err := os.WriteFile(filepath.Join(base, "ok.yaml"), []byte(userCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByPath("ok.yaml"); err != nil {
		t.Fatalf("expected catalog load inside base dir, got %v", err)
	}
	if c, err := repo.Get("retail_banking"); err != nil || c.Name != "Retail banking override" {
		t.Fatalf("expected Get by id, got %v, %v", c, err)
	}

	outsideFile := filepath.Join(t.TempDir(), "outside.yaml")
	if err := os.WriteFile(outsideFile, []byte("id: bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByPath(outsideFile); err == nil {
		t.Fatal("expected traversal rejection for outside absolute path")
	}
	if _, err := repo.GetByPath("../outside.yaml"); err == nil {
		t.Fatal("expected traversal rejection for relative path escape")
	}
}

func TestBuiltinLint_OnlyKnownOverlap(t *testing.T) {
	list, err := Builtin()
	if err != nil {
		t.Fatal(err)
	}
	set, err := rules.Build(list, registry.DefaultGeneratorRegistry())
	if err != nil {
		t.Fatal(err)
	}
	findings := rules.Lint(set, nil)
	if len(findings) != 1 {
		for _, f := range findings {
			t.Log(f)
		}
		t.Fatalf("expected exactly one finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Kind != rules.FindingOverlap || f.Table != "security.security_blocks" || f.Column != "status" {
		t.Fatalf("unexpected finding: %s", f)
	}
}

func TestBuiltinDefaultsAreLowerPriority(t *testing.T) {
	list, err := Builtin()
	if err != nil {
		t.Fatal(err)
	}
	set, err := rules.Build(list, registry.DefaultGeneratorRegistry())
	if err != nil {
		t.Fatal(err)
	}
	r, err := set.Match("consumer_lending.applicants", "citizenship_status")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Default || r.Source != "shared" {
		t.Fatalf("expected shared default rule, got %s", r)
	}
}
