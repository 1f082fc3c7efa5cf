package app

import (
	"context"
	"fmt"

	"github.com/hasura/data-generator-sub003/internal/infra/keys/postgres"
	"github.com/hasura/data-generator-sub003/internal/infra/keys/sqlite"
	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/logging"
)

const (
	KeysKindMemory   = "memory"
	KeysKindPostgres = "postgres"
	KeysKindSQLite   = "sqlite"
)

// KeySourceConfig selects where upstream primary keys come from. Keys of
// tables generated in the current run are always served from memory first.
type KeySourceConfig struct {
	Kind   string
	DSN    string
	Schema string
}

type dbSource interface {
	keys.Source
	Connect(ctx context.Context) error
	Close() error
}

// OpenKeySource returns the source for a run and a close func for any
// database connection it opened.
func OpenKeySource(ctx context.Context, cfg KeySourceConfig, mem *keys.Memory, logger *logging.Logger) (keys.Source, func() error, error) {
	noop := func() error { return nil }

	var db dbSource
	switch cfg.Kind {
	case "", KeysKindMemory:
		return mem, noop, nil
	case KeysKindPostgres:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("postgres key source requires a dsn")
		}
		db = postgres.NewPostgresSource(cfg.DSN, cfg.Schema)
	case KeysKindSQLite:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("sqlite key source requires a dsn")
		}
		db = sqlite.NewSQLiteSource(cfg.DSN)
	default:
		return nil, nil, fmt.Errorf("unsupported key source kind: %s", cfg.Kind)
	}

	logger.Infow("keys.connect", map[string]any{"kind": cfg.Kind, "dsn": RedactDSN(cfg.DSN), "schema": cfg.Schema})
	if err := db.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s key source: %w", cfg.Kind, err)
	}
	return keys.Chain{mem, db}, db.Close, nil
}
