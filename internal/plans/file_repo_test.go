package plans

import (
	"os"
	"path/filepath"
	"testing"
)

const planYAML = `name: iam
seed: 42
tables:
  - table: security.identities
    rows: 10
    primary_key: identity_id
    columns: [identity_id, username]
  - table: security.roles
    rows: 4
    primary_key: role_id
    columns: [role_id, role_name]
`

func TestGetByPath_RejectsPathTraversal(t *testing.T) {
	base := t.TempDir()
	repo := NewFileRepository(base)

	if err := os.WriteFile(filepath.Join(base, "iam.yaml"), []byte(planYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := repo.GetByPath("iam.yaml")
	if err != nil {
		t.Fatalf("expected plan load inside base dir, got %v", err)
	}
	if p.ID != "iam" || p.Seed == nil || *p.Seed != 42 || len(p.Tables) != 2 || p.Tables[1].PrimaryKey != "role_id" {
		t.Fatalf("unexpected plan: %+v", p)
	}

	outsideFile := filepath.Join(t.TempDir(), "outside.yaml")
	if err := os.WriteFile(outsideFile, []byte("name: bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByPath(outsideFile); err == nil {
		t.Fatal("expected traversal rejection for outside absolute path")
	}
	if _, err := repo.GetByPath("../outside.yaml"); err == nil {
		t.Fatal("expected traversal rejection for relative path escape")
	}
	if _, err := Load(outsideFile); err != nil {
		t.Fatalf("expected explicit Load to read any path, got %v", err)
	}
}

func TestGetByIDOrName(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "security.yaml"), []byte(planYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	repo := NewFileRepository(base)
	for _, id := range []string{"security", "iam"} {
		if _, err := repo.Get(id); err != nil {
			t.Fatalf("Get(%q): %v", id, err)
		}
	}
	if _, err := repo.Get("missing"); err == nil {
		t.Fatal("expected not found")
	}

	empty := NewFileRepository(filepath.Join(base, "nope"))
	list, err := empty.List()
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list for missing dir, got %v, %v", list, err)
	}
}

func TestApplyRowOverrides(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "iam.yaml"), []byte(planYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := NewFileRepository(base).Get("iam")
	if err != nil {
		t.Fatal(err)
	}

	out, err := ApplyRowOverrides(p, map[string]int64{"security.roles": 9})
	if err != nil {
		t.Fatal(err)
	}
	if out.Tables[1].Rows != 9 || p.Tables[1].Rows != 4 {
		t.Fatalf("expected copy with override, got %d (original %d)", out.Tables[1].Rows, p.Tables[1].Rows)
	}
	if _, err := ApplyRowOverrides(p, map[string]int64{"security.nope": 1}); err == nil {
		t.Fatal("expected unknown table error")
	}
	if _, err := ApplyRowOverrides(p, map[string]int64{"security.roles": 0}); err == nil {
		t.Fatal("expected non-positive rows error")
	}
}
