package app

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hasura/data-generator-sub003/internal/catalog"
	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/engine"
	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/logging"
	"github.com/hasura/data-generator-sub003/internal/pool"
	"github.com/hasura/data-generator-sub003/internal/registry"
)

func newService(t *testing.T, logOut *bytes.Buffer) *PreviewService {
	t.Helper()
	list, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	svc, err := NewPreviewService(list, registry.DefaultGeneratorRegistry(), logging.NewLoggerWithWriter("info", logOut), 100)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func grantsPlan(rows int64) *domain.Plan {
	return &domain.Plan{
		ID:   "grants",
		Name: "grants",
		Tables: []domain.TablePlan{
			{Table: "security.identity_roles", Rows: rows, Columns: []string{"identity_id", "role_id", "granted_at"}},
		},
	}
}

// seedUpstream creates security_identities (3 rows) and security_roles
// (2 rows) the way a previous load would have left them.
func seedUpstream(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upstream.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE security_identities (identity_id INTEGER PRIMARY KEY, username TEXT)`,
		`CREATE TABLE security_roles (role_id INTEGER PRIMARY KEY, role_name TEXT)`,
		`INSERT INTO security_identities (identity_id, username) VALUES (1, 'a'), (2, 'b'), (3, 'c')`,
		`INSERT INTO security_roles (role_id, role_name) VALUES (10, 'Teller'), (20, 'Auditor')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestPreview_SQLiteUpstreamKeys(t *testing.T) {
	var logs bytes.Buffer
	svc := newService(t, &logs)
	path := seedUpstream(t)
	seed := int64(17)

	sink := engine.NewCountingSink(true)
	stats, err := svc.Preview(context.Background(), &PreviewRequest{
		Plan: grantsPlan(6),
		Seed: &seed,
		Keys: KeySourceConfig{Kind: KeysKindSQLite, DSN: path},
	}, sink)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RunID == "" || stats.Seed != 17 || stats.CatalogHash != svc.CatalogHash() || stats.ConfigHash == "" {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	seen := map[pool.Pair]bool{}
	for _, r := range sink.Rows("security.identity_roles") {
		p := pool.Pair{Left: r[0], Right: r[1]}
		if seen[p] {
			t.Fatalf("pair %v reused", p)
		}
		seen[p] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected all 6 combinations, got %d", len(seen))
	}
	if !seen[pool.Pair{Left: int64(3), Right: int64(20)}] {
		t.Fatalf("expected keys read from sqlite, got %v", seen)
	}

	if !strings.Contains(logs.String(), `"msg":"run.completed"`) || strings.Contains(logs.String(), path) {
		t.Fatalf("expected completion log with redacted dsn, got %s", logs.String())
	}

	_, err = svc.Preview(context.Background(), &PreviewRequest{
		Plan:         grantsPlan(6),
		Seed:         &seed,
		Keys:         KeySourceConfig{Kind: KeysKindSQLite, DSN: path},
		RowOverrides: map[string]int64{"security.identity_roles": 7},
	}, engine.NewCountingSink(false))
	if !errors.Is(err, pool.ErrExhausted) {
		t.Fatalf("expected exhaustion past 3x2 combinations, got %v", err)
	}
}

func TestPreview_MemoryOnlyMissingUpstream(t *testing.T) {
	var logs bytes.Buffer
	svc := newService(t, &logs)
	_, err := svc.Preview(context.Background(), &PreviewRequest{Plan: grantsPlan(1)}, engine.NewCountingSink(false))
	if !errors.Is(err, keys.ErrMissing) {
		t.Fatalf("expected missing upstream keys, got %v", err)
	}
}

func TestPreview_RejectsBadRequests(t *testing.T) {
	var logs bytes.Buffer
	svc := newService(t, &logs)
	ctx := context.Background()

	if _, err := svc.Preview(ctx, &PreviewRequest{}, engine.NewCountingSink(false)); err == nil {
		t.Fatal("expected missing plan error")
	}

	bad := grantsPlan(1)
	bad.Tables[0].Columns = []string{"role_id", "identity_id"}
	if _, err := svc.Preview(ctx, &PreviewRequest{Plan: bad}, engine.NewCountingSink(false)); err == nil {
		t.Fatal("expected pair ordering to be rejected before running")
	}

	if _, err := svc.Preview(ctx, &PreviewRequest{Plan: grantsPlan(1), Keys: KeySourceConfig{Kind: "mysql", DSN: "x"}}, engine.NewCountingSink(false)); err == nil {
		t.Fatal("expected unsupported key source kind")
	}
	if _, err := svc.Preview(ctx, &PreviewRequest{Plan: grantsPlan(1), Keys: KeySourceConfig{Kind: KeysKindPostgres}}, engine.NewCountingSink(false)); err == nil {
		t.Fatal("expected postgres without dsn to fail")
	}
}

func TestNewPreviewService_RejectsInvalidCatalog(t *testing.T) {
	bad := []domain.Catalog{{ID: "bad", Rules: []domain.RuleSpec{{
		Table:     "t",
		Column:    "c",
		Generator: domain.GeneratorSpec{Type: "choice", Params: map[string]interface{}{"values": []interface{}{}}},
	}}}}
	if _, err := NewPreviewService(bad, registry.DefaultGeneratorRegistry(), logging.NewLogger("error"), 10); err == nil {
		t.Fatal("expected empty choice list to fail at startup")
	}
}
