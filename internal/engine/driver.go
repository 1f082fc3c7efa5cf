package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/generators"
	"github.com/hasura/data-generator-sub003/internal/keys"
	"github.com/hasura/data-generator-sub003/internal/logging"
	"github.com/hasura/data-generator-sub003/internal/rules"
	"github.com/hasura/data-generator-sub003/internal/run"
)

const defaultBatchSize = 1000

// Driver walks a plan in the order given: tables one after another, rows in
// sequence, and columns in the listed order, so a column may read values set
// by the columns before it. It does not reorder tables by dependency.
type Driver struct {
	rules     *rules.Set
	logger    *logging.Logger
	batchSize int
}

func NewDriver(set *rules.Set, logger *logging.Logger, batchSize int) *Driver {
	if logger == nil {
		logger = logging.NewLogger("error")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Driver{rules: set, logger: logger.WithComponent("driver"), batchSize: batchSize}
}

// Execute generates every table of plan into sink. The primary key of each
// generated row is recorded in mem so later tables can reference it through
// state. Any rule error aborts the run.
func (d *Driver) Execute(ctx context.Context, plan *domain.Plan, state *run.State, mem *keys.Memory, sink Sink) (*domain.RunStats, error) {
	start := time.Now()
	stats := &domain.RunStats{
		Seed:       state.Seed(),
		TableStats: make([]domain.TableRunStats, 0, len(plan.Tables)),
	}

	for i := range plan.Tables {
		t := &plan.Tables[i]
		ts, err := d.executeTable(ctx, t, state, mem, sink)
		if err != nil {
			return nil, err
		}
		stats.TableStats = append(stats.TableStats, *ts)
		stats.TotalRows += ts.RowsGenerated
		stats.TablesGenerated++
	}

	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("failed to close sink: %w", err)
	}
	stats.DurationSeconds = time.Since(start).Seconds()
	return stats, nil
}

func (d *Driver) executeTable(ctx context.Context, t *domain.TablePlan, state *run.State, mem *keys.Memory, sink Sink) (*domain.TableRunStats, error) {
	startTime := time.Now()

	bound := make([]*rules.Rule, len(t.Columns))
	for i, col := range t.Columns {
		r, err := d.rules.Match(t.Table, col)
		if err != nil {
			return nil, fmt.Errorf("table '%s', column '%s': %w", t.Table, col, err)
		}
		bound[i] = r
		d.logger.Debugw("column.bound", map[string]any{"table": t.Table, "column": col, "rule": r.String()})
	}

	rng := rand.New(rand.NewSource(tableSeed(state.Seed(), t.Table)))
	gctx := generators.NewContext(ctx, rng, state, t.Table)
	pk := keys.Ref{Table: t.Table, Column: t.PrimaryKey}

	batch := make([][]interface{}, 0, d.batchSize)
	for rowIdx := int64(0); rowIdx < t.Rows; rowIdx++ {
		if rowIdx%int64(d.batchSize) == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		gctx.NewRow(rowIdx)
		row := make(domain.Row, len(t.Columns))
		values := make([]interface{}, len(t.Columns))
		for colIdx, col := range t.Columns {
			val, err := bound[colIdx].Fn(row, col, gctx)
			if err != nil {
				return nil, fmt.Errorf("table '%s', column '%s', row %d: %w", t.Table, col, rowIdx, err)
			}
			row[col] = val
			values[colIdx] = val
		}
		if t.PrimaryKey != "" {
			mem.Record(pk, row[t.PrimaryKey])
		}

		batch = append(batch, values)
		if len(batch) >= d.batchSize {
			if err := sink.WriteBatch(t.Table, t.Columns, batch); err != nil {
				return nil, fmt.Errorf("failed to write batch for table '%s': %w", t.Table, err)
			}
			batch = make([][]interface{}, 0, d.batchSize)
		}
	}

	if len(batch) > 0 {
		if err := sink.WriteBatch(t.Table, t.Columns, batch); err != nil {
			return nil, fmt.Errorf("failed to write final batch for table '%s': %w", t.Table, err)
		}
	}

	duration := time.Since(startTime)
	d.logger.Infow("table.generated", map[string]any{
		"table":            t.Table,
		"rows":             t.Rows,
		"duration_seconds": duration.Seconds(),
	})
	return &domain.TableRunStats{
		Table:           t.Table,
		RowsGenerated:   t.Rows,
		DurationSeconds: duration.Seconds(),
	}, nil
}

// tableSeed derives a per-table stream from the run seed.
func tableSeed(seed int64, table string) int64 {
	h := fnv.New64a()
	h.Write([]byte(table))
	return seed ^ int64(h.Sum64())
}
