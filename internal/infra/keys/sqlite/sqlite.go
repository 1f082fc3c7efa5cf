package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/validation"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSource reads upstream keys from a SQLite file. SQLite has no schemas,
// so the schema part of a qualified table name becomes a "schema_table"
// prefix: mortgage_services.applications is read from
// mortgage_services_applications unless the bare table exists.
type SQLiteSource struct {
	path string
	db   *sql.DB
}

func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

func (s *SQLiteSource) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSource) Keys(ctx context.Context, ref keys.Ref) ([]interface{}, error) {
	if s.db == nil {
		return nil, errors.New("sqlite key source not connected")
	}
	table, err := s.resolveTable(ctx, ref.Table)
	if err != nil {
		return nil, err
	}
	if table == "" {
		return nil, nil
	}
	if !validation.IsValidIdentifier(ref.Column) {
		return nil, fmt.Errorf("invalid column identifier in key reference %s", ref)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s",
		ref.Column, table, ref.Column, ref.Column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read keys for %s: %w", ref, err)
	}
	defer rows.Close()

	values := make([]interface{}, 0)
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, keys.Normalize(v))
	}
	return values, rows.Err()
}

func (s *SQLiteSource) resolveTable(ctx context.Context, fq string) (string, error) {
	schema, table := keys.SplitTable(fq)
	candidates := []string{table}
	if schema != "" {
		candidates = []string{schema + "_" + table, table}
	}

	for _, name := range candidates {
		if !validation.IsValidIdentifier(name) {
			return "", fmt.Errorf("invalid table identifier: %s", name)
		}
		var found string
		err := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&found)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	}
	return "", nil
}
