package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/validation"
	_ "github.com/lib/pq"
)

// PostgresSource reads primary keys that an earlier stage already inserted.
type PostgresSource struct {
	dsn    string
	schema string
	db     *sql.DB
}

func NewPostgresSource(dsn, schema string) *PostgresSource {
	if schema == "" {
		schema = "public"
	}
	return &PostgresSource{
		dsn:    dsn,
		schema: schema,
	}
}

func (s *PostgresSource) Connect(ctx context.Context) error {
	db, err := sql.Open("postgres", s.dsn)
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

func (s *PostgresSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresSource) Keys(ctx context.Context, ref keys.Ref) ([]interface{}, error) {
	if s.db == nil {
		return nil, fmt.Errorf("postgres key source not connected")
	}
	schema, table := keys.SplitTable(ref.Table)
	if schema == "" {
		schema = s.schema
	}
	for _, ident := range []string{schema, table, ref.Column} {
		if !validation.IsValidIdentifier(ident) {
			return nil, fmt.Errorf("invalid identifier in key reference %s: %q", ref, ident)
		}
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = $1 AND table_name = $2
	)`, schema, table).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s.%s WHERE %s IS NOT NULL ORDER BY %s",
		ref.Column, schema, table, ref.Column, ref.Column)
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
